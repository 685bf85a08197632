package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joeblew999/plat-fonts/internal/types"
	"github.com/joeblew999/plat-fonts/pkg/catalog"
	"github.com/joeblew999/plat-fonts/pkg/config"
	"github.com/joeblew999/plat-fonts/pkg/delivery"
	"github.com/joeblew999/plat-fonts/pkg/font"
	"github.com/joeblew999/plat-fonts/pkg/log"
	"github.com/joeblew999/plat-fonts/pkg/syncbridge"
	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/rest/httpc"
	"gopkg.in/yaml.v3"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fonts",
		Short: "Inspect and edit a theme's font catalog",
		Long: `fonts reads the font families of a theme.json document.

Environment Variables:
  DATA_PATH        Base data directory (default: ./.data)
  THEME_PATH       Directory holding theme.json (default: $DATA_PATH/theme)
  FONTS_LOG_LEVEL  debug, info, warn or error`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("theme", config.GetThemeJSONPath(), "path to theme.json")

	root.AddCommand(
		newOutlineCmd(),
		newValidateCmd(),
		newDeleteCmd(),
		newVersionCmd(),
	)
	return root
}

func loadCatalog(cmd *cobra.Command) (catalog.Catalog, error) {
	path, _ := cmd.Flags().GetString("theme")
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read theme: %w", err)
	}
	c, err := catalog.ParseThemeJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug("Catalog loaded", "path", path, "families", len(c))
	return c, nil
}

func newOutlineCmd() *cobra.Command {
	var format, baseURL string

	cmd := &cobra.Command{
		Use:   "outline",
		Short: "Print the families and faces of the theme",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCatalog(cmd)
			if err != nil {
				return err
			}
			var resolver catalog.AssetResolver
			if baseURL != "" {
				resolver = font.NewThemeAssets(baseURL)
			}
			return writeOutline(cmd.OutOrStdout(), catalog.Project(c, resolver), format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", "json", "output format: json or yaml")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "URL the theme is served from, used to resolve file:./ sources")
	return cmd
}

func writeOutline(w io.Writer, o catalog.Outline, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(o)
	case "yaml":
		doc, err := outlineNode(o)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// outlineNode keeps catalog order, which a yaml map would lose.
func outlineNode(o catalog.Outline) (*yaml.Node, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, family := range o.Families() {
		value := &yaml.Node{}
		if err := value.Encode(family); err != nil {
			return nil, err
		}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: family.ID},
			value,
		)
	}
	return doc, nil
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the theme's font catalog can be ingested",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadCatalog(cmd)
			if err != nil {
				return err
			}
			faces, removed := 0, 0
			for _, f := range c {
				faces += len(f.FontFace)
				if f.ShouldBeRemoved {
					removed++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d families, %d faces, %d marked for removal\n", len(c), faces, removed)
			return nil
		},
	}
}

func newDeleteCmd() *cobra.Command {
	var (
		family, weight, style string
		endpoint, nonce, name string
		timeout               time.Duration
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Mark a family or face for removal and emit the catalog submission",
		Long: `delete applies a confirmed deletion to the theme's catalog.

Without --endpoint the theme.json catalog is changed and the resulting
submission is printed. With --endpoint the catalog the receiver has stored
is fetched, changed and posted back; the receiver needs a nonce it issued.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (weight == "") != (style == "") {
				return errors.New("--weight and --style must be given together")
			}
			if endpoint != "" && nonce == "" {
				return errors.New("--nonce is required with --endpoint")
			}
			var c catalog.Catalog
			var err error
			if endpoint != "" {
				c, err = fetchCatalog(cmd.Context(), endpoint, name, timeout)
			} else {
				c, err = loadCatalog(cmd)
			}
			if err != nil {
				return err
			}
			if _, ok := c.Canonical(family); !ok {
				log.Warn("Family not in catalog, nothing will change", "family", family)
			}

			var submitter syncbridge.Submitter = printSubmitter(cmd.OutOrStdout())
			if endpoint != "" {
				submitter = delivery.NewDirectSubmitter(delivery.NewHTTPSink(endpoint, timeout), name)
			}

			var submitErr error
			store := catalog.NewStore(c)
			bridge := syncbridge.New(syncbridge.SubmitterFunc(func(ctx context.Context, s syncbridge.Submission) error {
				// One-shot posts may reuse a page's nonce; they are not ordered against it.
				s.Sequence = 0
				submitErr = submitter.Submit(ctx, s)
				return submitErr
			}), nonce)
			defer bridge.Attach(store)()

			t := catalog.FamilyTarget(family)
			if weight != "" {
				t = catalog.FaceTarget(family, catalog.FontWeight(weight), style)
			}
			coord := catalog.NewCoordinator(store)
			coord.RequestDelete(t)
			coord.Confirm()

			return submitErr
		},
	}

	cmd.Flags().StringVar(&family, "family", "", "family identifier or display name")
	cmd.Flags().StringVar(&weight, "weight", "", "face weight, with --style")
	cmd.Flags().StringVar(&style, "style", "", "face style, with --weight")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "receiver URL, e.g. http://localhost:8088/api/v1/fonts")
	cmd.Flags().StringVar(&nonce, "nonce", "", "submission nonce")
	cmd.Flags().StringVar(&name, "theme-name", "", "theme name on the receiver")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
	_ = cmd.MarkFlagRequired("family")
	return cmd
}

// fetchCatalog reads the catalog a plat-fonts receiver has stored, so a
// post does not undo deletions made elsewhere.
func fetchCatalog(ctx context.Context, endpoint, theme string, timeout time.Duration) (catalog.Catalog, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	service := httpc.NewServiceWithClient("fonts-cli", &http.Client{Timeout: timeout})
	resp, err := service.Do(ctx, http.MethodGet, endpoint, types.GetFontsRequest{Theme: theme})
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch catalog: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var stored types.GetFontsResponse
	if err := httpc.Parse(resp, &stored); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	c, err := catalog.Parse(stored.Families)
	if err != nil {
		return nil, fmt.Errorf("stored catalog: %w", err)
	}
	log.Debug("Catalog fetched", "endpoint", endpoint, "revision", stored.Revision, "families", len(c))
	return c, nil
}

func printSubmitter(w io.Writer) syncbridge.Submitter {
	return syncbridge.SubmitterFunc(func(_ context.Context, s syncbridge.Submission) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fonts %s\n", version)
		},
	}
}
