package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/embedprep-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/embedprep-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/embedprep-cli/internal/adapters/driven/stream"
	"github.com/custodia-labs/embedprep-cli/internal/core/domain"
	"github.com/custodia-labs/embedprep-cli/internal/core/ports/driven"
	"github.com/custodia-labs/embedprep-cli/internal/core/ports/driving"
	"github.com/custodia-labs/embedprep-cli/internal/core/services"
)

var (
	joinMetaPath    string
	joinReviewsPath string
	joinOutputPath  string
	joinKeepMissing bool
	joinMaxMetaRows int
	joinFields      []string
	joinIndexType   string
	joinIndexPath   string
)

var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "Join metadata with reviews into embedding-ready records",
	Long: `Streams the review dataset once, joins each review against an ASIN-keyed
metadata index and writes one JSON record per accepted review, in input
order. On success a stats summary is printed to stdout.

Input and output paths ending in .gz or .zst are (de)compressed
transparently. Reviews whose ASIN has no metadata entry are dropped and
counted unless --keep-missing-meta is set.`,
	RunE: runJoin,
}

func init() {
	joinCmd.Flags().StringVar(&joinMetaPath, "meta", "", "product metadata .jsonl (optionally .gz/.zst)")
	joinCmd.Flags().StringVar(&joinReviewsPath, "reviews", "", "reviews .jsonl (optionally .gz/.zst)")
	joinCmd.Flags().StringVar(&joinOutputPath, "out", "", "output JSONL for embedding")
	joinCmd.Flags().BoolVar(&joinKeepMissing, "keep-missing-meta", false,
		"emit reviews without a metadata entry instead of dropping them")
	joinCmd.Flags().IntVar(&joinMaxMetaRows, "max-meta-rows", 0,
		"stop metadata ingestion after this many input lines (0 = no cap)")
	joinCmd.Flags().StringSliceVar(&joinFields, "fields", nil,
		"metadata fields to retain (default title,brand,main_cat,category,price,rank)")
	joinCmd.Flags().StringVar(&joinIndexType, "index", "memory", "metadata index backend: memory or sqlite")
	joinCmd.Flags().StringVar(&joinIndexPath, "index-path", "",
		"sqlite index file (default: temporary, removed after the run)")

	_ = joinCmd.MarkFlagRequired("meta")
	_ = joinCmd.MarkFlagRequired("reviews")
	_ = joinCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(joinCmd)
}

func runJoin(cmd *cobra.Command, _ []string) error {
	store, err := newMetadataStore(joinIndexType, joinIndexPath)
	if err != nil {
		return err
	}
	defer store.Close()

	orchestrator := services.NewJoinOrchestrator(stream.New(), store)
	summary, err := orchestrator.Run(cmd.Context(), driving.JoinRequest{
		MetaPath:        joinMetaPath,
		ReviewsPath:     joinReviewsPath,
		OutputPath:      joinOutputPath,
		DropMissingMeta: !joinKeepMissing,
		MaxMetaRows:     joinMaxMetaRows,
		KeepFields:      joinFields,
	})
	if err != nil {
		return fmt.Errorf("join failed: %w", err)
	}

	rendered, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	cmd.Println(string(rendered))
	return nil
}

// newMetadataStore selects the index backend.
func newMetadataStore(kind, path string) (driven.MetadataStore, error) {
	switch kind {
	case "memory":
		if path != "" {
			return nil, fmt.Errorf("%w: --index-path requires --index sqlite", domain.ErrInvalidInput)
		}
		return memory.NewMetadataStore(), nil
	case "sqlite":
		return sqlite.NewMetadataStore(path)
	default:
		return nil, fmt.Errorf("%w: unknown index backend %q", domain.ErrUnsupportedType, kind)
	}
}
