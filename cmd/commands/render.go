package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AtRiskMedia/flexstack-go/internal/domain/editor"
	"github.com/AtRiskMedia/flexstack-go/internal/domain/entities/flex"
	"github.com/AtRiskMedia/flexstack-go/internal/domain/serializer"
	"github.com/AtRiskMedia/flexstack-go/internal/infrastructure/security"
	"github.com/AtRiskMedia/flexstack-go/internal/presentation/templates"
)

// NewRenderCommand creates the render command
func NewRenderCommand() *cobra.Command {
	var (
		inPath   string
		htmlPath string
		jsonPath string
		device   string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Serialize a card document to flex JSON and HTML",
		Long: `Read an editor document (JSON or YAML) and write the flex message JSON
and the HTML preview a save would produce.

Examples:
  # Print the flex JSON
  flexstack-go render --in card.yaml

  # Write both artifacts
  flexstack-go render --in card.json --json out.json --html out.html

  # Preview as it looks on a phone
  flexstack-go render --in card.json --html out.html --device Mobile`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocumentFile(inPath)
			if err != nil {
				return err
			}
			dev, err := flex.ParseDevice(device)
			if err != nil {
				return err
			}

			flexJSON, err := serializer.ToFlexJSON(doc)
			if err != nil {
				return fmt.Errorf("failed to serialize %s: %w", inPath, err)
			}
			html, err := templates.NewDocumentRenderer().RenderForDevice(doc, dev)
			if err != nil {
				return fmt.Errorf("failed to render %s: %w", inPath, err)
			}

			out := cmd.OutOrStdout()
			if jsonPath == "" && htmlPath == "" {
				fmt.Fprintln(out, string(flexJSON))
				return nil
			}
			if jsonPath != "" {
				if err := os.WriteFile(jsonPath, flexJSON, 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", jsonPath, err)
				}
				fmt.Fprintf(out, "✓ Wrote flex JSON to %s\n", jsonPath)
			}
			if htmlPath != "" {
				if err := os.WriteFile(htmlPath, []byte(html), 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", htmlPath, err)
				}
				fmt.Fprintf(out, "✓ Wrote HTML preview to %s\n", htmlPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inPath, "in", "i", "", "Document file (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&htmlPath, "html", "", "Write the HTML preview to this file")
	cmd.Flags().StringVar(&jsonPath, "json", "", "Write the flex JSON to this file")
	cmd.Flags().StringVar(&device, "device", string(flex.DeviceDesktop), "Preview device (Desktop, Tablet or Mobile)")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}

func loadDocumentFile(path string) (flex.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return flex.Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	newID := security.GenerateULID

	var doc flex.Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		doc, err = flex.DecodeDocumentYAML(data, newID)
	default:
		doc, err = flex.DecodeDocument(data, newID)
	}
	if err != nil {
		return flex.Document{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if id, err := editor.CheckInvariants(doc); err != nil {
		return flex.Document{}, fmt.Errorf("invalid document %s: node %s: %w", path, id, err)
	}
	return doc, nil
}
