package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/eminiarts/tweakpine/config"
)

// positionValue is a pflag.Value accepting only known panel corners.
type positionValue struct {
	value string
}

var _ pflag.Value = (*positionValue)(nil)

func (p *positionValue) String() string { return p.value }

func (p *positionValue) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, pos := range config.Positions {
		if pos == s {
			p.value = s
			return nil
		}
	}
	return fmt.Errorf("must be one of: %s", strings.Join(config.Positions, ", "))
}

func (p *positionValue) Type() string { return "position" }
