// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/H0llyW00dzZ/brssl-bridge/src/internal/handshake"
	"github.com/H0llyW00dzZ/brssl-bridge/src/internal/x509/anchors"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

func newAnchorsCommand(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "anchors FILE",
		Short: "Build trust anchors from a certificate bundle and list them",
		Long: `Decodes a PEM, DER or PKCS#7 bundle and turns every certificate into a trust
anchor through the bridge: the raw subject becomes the DN, the public key is
split into its native components, and the CA flag follows basic constraints.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := handshake.NewRunner(opts.cfg)
			defer checkLeaks(r, opts.zl)

			tas, certs, err := anchors.LoadFile(r.Bridge(), args[0])
			if err != nil {
				return err
			}
			defer anchors.Release(tas)

			infos, err := anchors.Describe(tas, certs)
			if err != nil {
				return err
			}
			opts.log.Printf("Built %d trust anchors from %s", len(infos), args[0])

			if asJSON {
				data, err := json.MarshalIndent(infos, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			return renderAnchorTable(cmd.OutOrStdout(), infos)
		},
	}

	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "emit JSON instead of a markdown table")
	return cmd
}

// renderAnchorTable writes infos as a markdown table.
func renderAnchorTable(w io.Writer, infos []anchors.Info) error {
	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)

	table.Header([]string{"🔢 #", "📛 Subject", "🏷️ Type", "🔐 Key", "📏 DN Bytes", "📅 Valid Until"})

	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		kind := "End-Entity"
		if info.CA {
			kind = "CA"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", info.Index),
			info.Subject,
			kind,
			fmt.Sprintf("%d-bit %s", info.KeyBits, info.KeyType),
			fmt.Sprintf("%d", info.DNBytes),
			info.ValidUntil,
		})
	}

	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := io.WriteString(w, buf.String())
	return err
}
