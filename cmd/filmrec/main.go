// Command filmrec is the maintenance CLI: bulk CSV ingestion, batch
// embedding generation and ANN index rebuilds. The HTTP server exposes the
// same operations behind admin auth; this tool is for running them from a
// shell or a cron job.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/user/filmrec/internal/config"
	"github.com/user/filmrec/internal/repository"
	"github.com/user/filmrec/internal/service"
)

var (
	cfg   *config.Config
	repos *repository.Repositories

	batchSize   int
	noNormalize bool
)

var rootCmd = &cobra.Command{
	Use:   "filmrec",
	Short: "Maintenance tooling for the film recommendation service",
	Long: `filmrec runs the batch side of the recommendation service:

  filmrec ingest films.csv   # load a CSV export into the catalog
  filmrec embed              # (re)generate embeddings for every film
  filmrec reindex            # rebuild the HNSW index after bulk changes
  filmrec prune <model>      # delete embeddings left over from an old model
  filmrec stats              # print catalog and embedding counts`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println("no .env file found, using the system environment")
		}
		cfg = config.Load()

		db, err := repository.InitDB(cfg.DatabaseURL, cfg.EmbeddingDim)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		repos = repository.NewRepositories(db)
		return nil
	},
}

var ingestCmd = &cobra.Command{
	Use:   "ingest <csv>",
	Short: "Ingest films from a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		rows, err := service.ReadCSV(f)
		if err != nil {
			return err
		}
		fmt.Printf("read %d rows from %s\n", len(rows), args[0])

		size := cfg.IngestBatchSize
		if batchSize > 0 {
			size = batchSize
		}
		ingest := service.NewIngestService(repos.Film, size)
		result, err := ingest.Ingest(signalContext(), rows)
		if err != nil {
			return err
		}
		fmt.Printf("inserted %d new films, catalog total %d\n", result.Inserted, result.Total)
		return nil
	},
}

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Generate embeddings for every film in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		normalize := cfg.Normalize && !noNormalize
		encoder := service.NewLazyOllamaEncoder(cfg.OllamaHost, cfg.EmbeddingModel, normalize)

		size := cfg.EmbedBatchSize
		if batchSize > 0 {
			size = batchSize
		}

		total, err := repos.Film.Count()
		if err != nil {
			return err
		}
		fmt.Printf("embedding %d films with model %s\n", total, cfg.EmbeddingModel)

		bar := progressbar.NewOptions(int(total),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("embedding"),
			progressbar.OptionOnCompletion(func() {
				fmt.Println()
			}),
		)

		job := service.NewEmbedJob(repos.Film, repos.Embedding, encoder, size)
		job.Progress = func(done int) {
			_ = bar.Set(done)
		}

		generated, err := job.GenerateAll(signalContext())
		if err != nil {
			return err
		}
		fmt.Printf("generated %d embeddings\n", generated)
		fmt.Println("run 'filmrec reindex' to rebuild the ANN index")
		return nil
	},
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the HNSW cosine index over the embedding set",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := service.NewIndexManager(repos.Embedding)
		result, err := mgr.Rebuild(signalContext())
		if err != nil {
			return err
		}
		if result.EmbeddingCount == 0 {
			fmt.Println("no embeddings found, nothing to index; run 'filmrec embed' first")
			return nil
		}
		fmt.Printf("index rebuilt over %d embeddings\n", result.EmbeddingCount)
		return nil
	},
}

var pruneCmd = &cobra.Command{
	Use:   "prune <model>",
	Short: "Delete embeddings generated under an old model",
	Long: `After switching EMBEDDING_MODEL and re-running 'filmrec embed', vectors
tagged with the previous model id are dead weight. prune removes them. The
active model is refused, re-run 'filmrec embed' instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := args[0]
		if target == cfg.EmbeddingModel {
			return fmt.Errorf("%s is the active model, refusing to prune it", target)
		}
		deleted, err := repos.Embedding.DeleteByModel(target)
		if err != nil {
			return err
		}
		fmt.Printf("deleted %d embeddings for model %s\n", deleted, target)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print catalog and embedding counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		films, err := repos.Film.Count()
		if err != nil {
			return err
		}
		embeddings, err := repos.Embedding.CountAll()
		if err != nil {
			return err
		}
		current, err := repos.Embedding.Count(cfg.EmbeddingModel)
		if err != nil {
			return err
		}
		indexSize, err := repos.Embedding.IndexSize()
		if err != nil {
			return err
		}

		fmt.Printf("films:                %d\n", films)
		fmt.Printf("embeddings (total):   %d\n", embeddings)
		fmt.Printf("embeddings (%s): %d\n", cfg.EmbeddingModel, current)
		fmt.Printf("index size:           %s\n", indexSize)
		return nil
	},
}

// signalContext returns a context cancelled by SIGINT/SIGTERM so long batch
// runs stop at a batch boundary.
func signalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx
}

func init() {
	rootCmd.PersistentFlags().IntVar(&batchSize, "batch-size", 0, "override the configured batch size")
	embedCmd.Flags().BoolVar(&noNormalize, "no-normalize", false, "skip unit L2 normalization of embeddings")

	rootCmd.AddCommand(ingestCmd, embedCmd, reindexCmd, pruneCmd, statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
