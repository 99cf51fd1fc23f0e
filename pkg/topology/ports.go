package topology

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

type Port struct {
	HostIP    string
	Host      int
	Container int
	Protocol  string
}

type Ports []Port

func ParsePort(s string) (Port, error) {
	p := Port{Protocol: "tcp"}

	spec := s

	if i := strings.LastIndex(s, "/"); i >= 0 {
		switch proto := s[i+1:]; proto {
		case "tcp", "udp", "sctp":
			p.Protocol = proto
			spec = s[:i]
		default:
			return p, fmt.Errorf("invalid port protocol %q in %s", proto, s)
		}
	}

	parts := strings.Split(spec, ":")

	switch len(parts) {
	case 2:
	case 3:
		if net.ParseIP(parts[0]) == nil {
			return p, fmt.Errorf("invalid port mapping %s", s)
		}
		p.HostIP = parts[0]
		parts = parts[1:]
	default:
		return p, fmt.Errorf("invalid port mapping %s", s)
	}

	host, err := parsePortNumber(parts[0])
	if err != nil {
		return p, fmt.Errorf("invalid port mapping %s", s)
	}

	container, err := parsePortNumber(parts[1])
	if err != nil {
		return p, fmt.Errorf("invalid port mapping %s", s)
	}

	p.Host = host
	p.Container = container

	return p, nil
}

func parsePortNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}

	if n < 1 || n > 65535 {
		return 0, fmt.Errorf("port out of range: %d", n)
	}

	return n, nil
}

func (p Port) String() string {
	s := fmt.Sprintf("%d:%d", p.Host, p.Container)

	if p.HostIP != "" {
		s = fmt.Sprintf("%s:%s", p.HostIP, s)
	}

	if p.Protocol != "" && p.Protocol != "tcp" {
		s = fmt.Sprintf("%s/%s", s, p.Protocol)
	}

	return s
}
