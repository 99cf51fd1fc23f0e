package helpers_test

import (
	"testing"

	"github.com/convox/topology/pkg/helpers"
	"github.com/stretchr/testify/require"
)

func TestCoalesceString(t *testing.T) {
	testData := []struct {
		given  []string
		expect string
	}{
		{
			given:  []string{"1", "2"},
			expect: "1",
		},
		{
			given:  []string{"1"},
			expect: "1",
		},
		{
			given:  []string{"", "", "2", "3"},
			expect: "2",
		},
		{
			given:  []string{"", ""},
			expect: "",
		},
	}

	for _, td := range testData {
		require.Equal(t, td.expect, helpers.CoalesceString(td.given...))
	}
}
