package topology

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrMalformedSpec     = errors.New("malformed spec")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrDanglingReference = errors.New("dangling reference")
	ErrDependencyCycle   = errors.New("dependency cycle")
)

// MalformedSpecError reports a structural or type error in the document. Path is the
// dotted location of the offending node, e.g. services.web.ports.
type MalformedSpecError struct {
	Path   string
	Reason string
}

func malformed(path, format string, args ...interface{}) *MalformedSpecError {
	return &MalformedSpecError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

func (e *MalformedSpecError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed spec: %s", e.Reason)
	}

	return fmt.Sprintf("malformed spec: %s: %s", e.Path, e.Reason)
}

func (e *MalformedSpecError) Is(target error) bool {
	return target == ErrMalformedSpec
}

func (e *MalformedSpecError) under(prefix string) *MalformedSpecError {
	if prefix == "" {
		return e
	}

	if e.Path == "" {
		return &MalformedSpecError{Path: prefix, Reason: e.Reason}
	}

	return &MalformedSpecError{Path: prefix + "." + e.Path, Reason: e.Reason}
}

// DuplicateKeyError reports a name declared twice within one section.
type DuplicateKeyError struct {
	Section string
	Key     string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key: %s.%s", e.Section, e.Key)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// DanglingReferenceError reports a dependency, link or named volume that does not
// resolve to a declaration.
type DanglingReferenceError struct {
	Service string
	Kind    string
	Key     string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("dangling reference: service %s references undeclared %s %s", e.Service, e.Kind, e.Key)
}

func (e *DanglingReferenceError) Is(target error) bool {
	return target == ErrDanglingReference
}

// DependencyCycleError lists the members of a cycle in the order they were encountered.
type DependencyCycleError struct {
	Members []string
}

func (e *DependencyCycleError) Error() string {
	if len(e.Members) == 0 {
		return "dependency cycle"
	}

	path := append(append([]string{}, e.Members...), e.Members[0])
	return fmt.Sprintf("dependency cycle: %s", strings.Join(path, " -> "))
}

func (e *DependencyCycleError) Is(target error) bool {
	return target == ErrDependencyCycle
}
