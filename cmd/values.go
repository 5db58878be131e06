package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/moby/patternmatcher"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/eminiarts/tweakpine/cli"
	"github.com/eminiarts/tweakpine/errors"
	"github.com/eminiarts/tweakpine/schema"
)

// NewValuesCmd prints the values a schema resolves to.
func NewValuesCmd() *cobra.Command {
	var (
		preset string
		match  []string
		set    []string
	)
	cmd := &cobra.Command{
		Use:   "values <schema.yml>",
		Short: "Print the values of a panel",
		Long: `Prints every valued control of a schema in declaration order. A saved
preset and explicit assignments can be applied first; nothing is persisted.
With --json the values are nested by folder, or flat by path when --match is
given.`,
		Example: `# Everything under the effects folder
tweakpine values scene.yml --match 'effects.*'

# Values of a saved preset with one override
tweakpine values scene.yml --preset fast --set speed=9`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			defer sess.Close()

			if preset != "" {
				p, err := sess.findPreset(preset)
				if err != nil {
					return err
				}
				for path, v := range p.Values {
					if err := sess.store.UpdateValue(sess.panel.ID(), path, v); err != nil && !errors.IsNotFound(err) {
						return err
					}
				}
			}
			if err := applyAssignments(sess, set); err != nil {
				return err
			}

			matcher, err := newPathMatcher(match)
			if err != nil {
				return err
			}
			paths, err := sess.store.Paths(sess.panel.ID())
			if err != nil {
				return err
			}
			values, err := sess.store.GetValues(sess.panel.ID())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if cli.GetOptions(cmd).JSONOutput {
				if matcher == nil {
					return writeJSON(out, sess.panel.Values().Map())
				}
				flat := make(map[string]interface{})
				for _, path := range paths {
					if ok, err := matcher.matches(path); err != nil {
						return err
					} else if ok {
						flat[path] = values[path]
					}
				}
				return writeJSON(out, flat)
			}

			for _, path := range paths {
				if matcher != nil {
					ok, err := matcher.matches(path)
					if err != nil {
						return err
					}
					if !ok {
						continue
					}
				}
				fmt.Fprintf(out, "%s = %s\n", path, formatValue(values[path]))
			}
			return nil
		},
	}
	addPanelFlags(cmd)
	cmd.Flags().StringVar(&preset, "preset", "", "Apply a saved preset (id or name) first")
	cmd.Flags().StringSliceVar(&match, "match", nil, "Only print paths matching these patterns (e.g. 'effects.*'); prefix with ! to exclude")
	cmd.Flags().StringArrayVar(&set, "set", nil, "Assign path=value before printing (value is parsed as YAML)")
	return cmd
}

// applyAssignments parses path=value pairs and writes them to the panel.
func applyAssignments(sess *session, assignments []string) error {
	for _, a := range assignments {
		path, raw, ok := strings.Cut(a, "=")
		if !ok || strings.TrimSpace(path) == "" {
			return errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("assignment '%s' must look like path=value", a))
		}
		v, err := parseScalar(raw)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInvalidInput, fmt.Sprintf("cannot parse value of '%s'", path))
		}
		if err := sess.store.UpdateValue(sess.panel.ID(), strings.TrimSpace(path), v); err != nil {
			return err
		}
	}
	return nil
}

// parseScalar reads raw as a YAML value so numbers, booleans and spring
// mappings arrive typed. An empty string stays a string.
func parseScalar(raw string) (interface{}, error) {
	if strings.TrimSpace(raw) == "" {
		return raw, nil
	}
	var v interface{}
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	if v == nil {
		return raw, nil
	}
	return v, nil
}

// pathMatcher matches dotted control paths with file-style patterns, where a
// dot plays the role of the path separator.
type pathMatcher struct {
	pm *patternmatcher.PatternMatcher
}

func newPathMatcher(patterns []string) (*pathMatcher, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	converted := make([]string, len(patterns))
	for i, p := range patterns {
		converted[i] = strings.ReplaceAll(p, schema.PathSeparator, "/")
	}
	pm, err := patternmatcher.New(converted)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid --match pattern")
	}
	return &pathMatcher{pm: pm}, nil
}

func (m *pathMatcher) matches(path string) (bool, error) {
	return m.pm.MatchesOrParentMatches(strings.ReplaceAll(path, schema.PathSeparator, "/"))
}

func formatValue(v schema.Value) string {
	switch t := v.(type) {
	case float64:
		return fmt.Sprintf("%g", t)
	case string:
		return fmt.Sprintf("%q", t)
	case schema.SpringConfig:
		m := t.Map()
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s: %g", k, m[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return fmt.Sprintf("%v", v)
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
