package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/shelfsignal-backend/internal/clients/rediscache"
	"github.com/yungbote/shelfsignal-backend/internal/data/db"
	"github.com/yungbote/shelfsignal-backend/internal/data/repos"
	catalogmod "github.com/yungbote/shelfsignal-backend/internal/modules/catalog"
	"github.com/yungbote/shelfsignal-backend/internal/modules/signals/steps"
	"github.com/yungbote/shelfsignal-backend/internal/platform/embedding"
	"github.com/yungbote/shelfsignal-backend/internal/platform/logger"
	"github.com/yungbote/shelfsignal-backend/internal/platform/neo4jdb"
	"github.com/yungbote/shelfsignal-backend/internal/utils"
)

func main() {
	job := flag.String("job", "", "job to run: quality_blend | graph_populate | graph_features | cooccurrence_build | similar | taste_profile | reading_aggregate | embed_works | resolve_sweep")
	userFlag := flag.String("user", "", "user id for per-user jobs")
	itemFlag := flag.String("item", "", "item key for the similar job")
	limitFlag := flag.Int("limit", 20, "neighbor limit for the similar job")
	flag.Parse()

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if *job == "" {
		log.Fatal("no job given, use -job")
	}

	// Env
	log.Info("Loading environment variables from main...")
	jobTimeout := utils.GetEnvAsInt("JOB_TIMEOUT_SEC", 3600, log)
	batchSize := utils.GetEnvAsInt("BATCH_SIZE", 500, log)
	candidateCap := utils.GetEnvAsInt("CANDIDATE_CAP", 20000, log)
	minLists := utils.GetEnvAsInt("COOC_MIN_LISTS", 2, log)
	minOverlap := utils.GetEnvAsInt("COOC_MIN_OVERLAP", 1, log)
	topK := utils.GetEnvAsInt("COOC_TOP_K", 50, log)
	sweepParallelism := utils.GetEnvAsInt("RESOLVE_PARALLELISM", 4, log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Neo4j (optional)
	neoClient, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		log.Warn("Neo4j init failed, graph jobs will be skipped", "error", err)
	}
	if neoClient != nil {
		defer neoClient.Close(context.Background())
	}

	// Redis (optional)
	similarCache, err := rediscache.NewSimilarCache(log)
	if err != nil {
		log.Warn("Redis init failed, neighbor lookups run uncached", "error", err)
	}
	if similarCache != nil {
		defer similarCache.Close()
	}

	// Embedding client (optional)
	embedder, err := embedding.NewClient(log)
	if err != nil {
		log.Warn("Embedding client init failed, backfill will be skipped", "error", err)
	}

	// Repos
	log.Info("Setting up Repos from main...")
	workRepo := repos.NewWorkRepo(thePG, log)
	editionRepo := repos.NewWorkEditionRepo(thePG, log)
	authorRepo := repos.NewAuthorRepo(thePG, log)
	subjectRepo := repos.NewSubjectRepo(thePG, log)
	workAuthorRepo := repos.NewWorkAuthorRepo(thePG, log)
	workSubjectRepo := repos.NewWorkSubjectRepo(thePG, log)
	listItemRepo := repos.NewBookListItemRepo(thePG, log)
	mergeLogRepo := repos.NewMergeLogRepo(thePG, log)
	resolverCacheRepo := repos.NewResolverCacheRepo(thePG, log)
	resolverLogRepo := repos.NewResolverLogRepo(thePG, log)
	eventRepo := repos.NewUserBookEventRepo(thePG, log)
	sessionRepo := repos.NewReadingSessionRepo(thePG, log)
	dayUnitRepo := repos.NewReadingDayUnitRepo(thePG, log)
	aggRepo := repos.NewReadingAggregateRepo(thePG, log)
	ratingStatRepo := repos.NewRatingStatRepo(thePG, log)
	workQualityRepo := repos.NewWorkQualityRepo(thePG, log)
	graphFeatureRepo := repos.NewGraphFeatureRepo(thePG, log)
	coocRepo := repos.NewCooccurrenceRepo(thePG, log)
	profileRepo := repos.NewUserTasteProfileRepo(thePG, log)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(jobTimeout)*time.Second)
	defer cancel()

	userID := uuid.Nil
	if *userFlag != "" {
		userID, err = uuid.Parse(*userFlag)
		if err != nil {
			log.Fatal("invalid -user", "error", err)
		}
	}

	log.Info("Running job", "job", *job)
	switch *job {
	case "quality_blend":
		_, err = steps.ComputeWorkQuality(ctx, steps.QualityBlendDeps{
			DB:          thePG,
			Log:         log,
			RatingStats: ratingStatRepo,
			WorkQuality: workQualityRepo,
			BatchSize:   batchSize,
		})
	case "graph_populate":
		_, err = steps.PopulateGraph(ctx, steps.GraphPopulateDeps{
			DB:           thePG,
			Log:          log,
			Neo:          neoClient,
			Works:        workRepo,
			Authors:      authorRepo,
			Subjects:     subjectRepo,
			WorkAuthors:  workAuthorRepo,
			WorkSubjects: workSubjectRepo,
			BatchSize:    batchSize,
		})
	case "graph_features":
		_, err = steps.ComputeGraphFeatures(ctx, steps.GraphFeaturesDeps{
			DB:            thePG,
			Log:           log,
			Neo:           neoClient,
			Works:         workRepo,
			WorkAuthors:   workAuthorRepo,
			WorkSubjects:  workSubjectRepo,
			Events:        eventRepo,
			GraphFeatures: graphFeatureRepo,
			CandidateCap:  candidateCap,
			BatchSize:     batchSize,
		}, userID)
	case "cooccurrence_build":
		_, err = steps.BuildCooccurrence(ctx, steps.CooccurrenceBuildDeps{
			DB:            thePG,
			Log:           log,
			ListItems:     listItemRepo,
			WorkAuthors:   workAuthorRepo,
			Cooccurrences: coocRepo,
			MinLists:      minLists,
			MinOverlap:    minOverlap,
			TopK:          topK,
		})
	case "similar":
		var neighbors []rediscache.Neighbor
		neighbors, err = steps.GetSimilar(ctx, steps.SimilarQueryDeps{
			DB:            thePG,
			Log:           log,
			Neo:           neoClient,
			Cooccurrences: coocRepo,
			Events:        eventRepo,
			Cache:         similarCache,
		}, *itemFlag, *limitFlag)
		for _, n := range neighbors {
			log.Info("neighbor", "key", n.Key, "jaccard", n.Jaccard, "overlap", n.Overlap, "source", n.Source)
		}
	case "taste_profile":
		_, err = steps.BuildUserProfile(ctx, steps.TasteProfileDeps{
			DB:       thePG,
			Log:      log,
			Works:    workRepo,
			Events:   eventRepo,
			Aggs:     aggRepo,
			Profiles: profileRepo,
		}, userID)
	case "reading_aggregate":
		_, err = steps.RebuildReadingAggregates(ctx, steps.ReadingAggregateDeps{
			DB:       thePG,
			Log:      log,
			Sessions: sessionRepo,
			DayUnits: dayUnitRepo,
			Aggs:     aggRepo,
			Resolver: resolverCacheRepo,
		}, userID)
	case "embed_works":
		_, err = steps.BackfillWorkEmbeddings(ctx, steps.EmbedWorksDeps{
			DB:       thePG,
			Log:      log,
			Works:    workRepo,
			Embedder: embedder,
		})
	case "resolve_sweep":
		_, err = catalogmod.ResolveSweep(ctx, catalogmod.MergeDeps{
			DB:           thePG,
			Log:          log,
			Works:        workRepo,
			Editions:     editionRepo,
			WorkAuthors:  workAuthorRepo,
			WorkSubjects: workSubjectRepo,
			Authors:      authorRepo,
			Events:       eventRepo,
			RatingStats:  ratingStatRepo,
			ResolverCach: resolverCacheRepo,
			ResolverLogs: resolverLogRepo,
			MergeLogs:    mergeLogRepo,
		}, sweepParallelism, 0)
	default:
		log.Fatal("unknown job", "job", *job)
	}
	if err != nil {
		log.Fatal("job failed", "job", *job, "error", err)
	}

	log.Info("Job complete", "job", *job)
}
