package main

import (
	"fmt"

	"github.com/KOMKZ/go-yogan-ioc/health"
	"github.com/KOMKZ/go-yogan-ioc/ioc"
	"github.com/KOMKZ/go-yogan-ioc/mapping"
	"github.com/spf13/cobra"
)

type probe interface{ Name() string }

type primaryProbe struct{ name string }

func (p *primaryProbe) Name() string { return p.name }

type substituteProbe struct{}

func (substituteProbe) Name() string { return "substitute" }

// probeMapping 覆盖映射、替身、单次参数覆盖三条路径
var probeMapping = ioc.MappingFunc(func(c *ioc.Container) error {
	if _, err := c.RegisterConstructor(func(name string) *primaryProbe {
		return &primaryProbe{name: name}
	}, "name"); err != nil {
		return err
	}
	b, err := ioc.MapTo[probe, *primaryProbe](c)
	if err != nil {
		return err
	}
	b.WithNamedArgument("name", "primary")
	return nil
})

func newSelfCheckCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "selfcheck",
		Short: "Build a container from the configuration and run a resolve round trip",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			c, err := ioc.NewFromConfig(cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			if err := ioc.Initialize(c, probeMapping); err != nil {
				return err
			}

			steps := []struct {
				name string
				want string
				run  func() (probe, error)
			}{
				{"mapping", "primary", func() (probe, error) { return ioc.Resolve[probe](c) }},
				{"argument override", "override", func() (probe, error) {
					return ioc.ExtendMap[probe](c).WithNamedArgument("name", "override").Resolve()
				}},
				{"substitute", "substitute", func() (probe, error) {
					if _, err := mapping.Substitute[substituteProbe](ioc.Map[probe](c)); err != nil {
						return nil, err
					}
					defer ioc.CleanSubstitutes[probe](c)
					return ioc.Resolve[probe](c)
				}},
			}
			for _, s := range steps {
				p, err := s.run()
				if err != nil {
					return fmt.Errorf("%s: %w", s.name, err)
				}
				if p.Name() != s.want {
					return fmt.Errorf("%s: resolved %q, want %q", s.name, p.Name(), s.want)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-18s ok\n", s.name)
			}

			resp := health.CheckContainer(cmd.Context(), c, health.DefaultTimeout)
			for _, name := range resp.Failed() {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", name, resp.Checks[name].Error)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-18s %s\n", "mappings", resp.Status)
			if !resp.IsHealthy() {
				return fmt.Errorf("%d mapping(s) cannot be resolved", len(resp.Failed()))
			}
			return nil
		},
	}
}
