package cli

import (
	"github.com/spf13/cobra"

	"github.com/tgrunnagle/playing-card-gen/internal/server"
	"github.com/tgrunnagle/playing-card-gen/pkg/cache"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		assets  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render server",
		Long: `Serve POST /api/v1/render: upload a config and a decklist as multipart
files and receive the rendered sheet as PNG. Images and fonts are read from
--assets. Rendered sheets are kept in memory so repeated requests are cheap.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cc cache.Cache = cache.NewMemoryCache()
			if noCache {
				cc = cache.NewNullCache()
			}
			s := server.New(server.Config{
				Addr:         addr,
				AssetsFolder: assets,
				Cache:        cc,
				Logger:       c.Logger,
			})
			defer s.Close()
			return s.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&assets, "assets", "assets", "assets folder for images and fonts")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "do not keep rendered sheets in memory")
	return cmd
}
