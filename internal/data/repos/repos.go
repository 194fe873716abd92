package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/shelfsignal-backend/internal/data/repos/catalog"
	"github.com/yungbote/shelfsignal-backend/internal/data/repos/signals"
	"github.com/yungbote/shelfsignal-backend/internal/platform/logger"
)

type WorkRepo = catalog.WorkRepo
type WorkEditionRepo = catalog.WorkEditionRepo
type AuthorRepo = catalog.AuthorRepo
type SubjectRepo = catalog.SubjectRepo
type WorkAuthorRepo = catalog.WorkAuthorRepo
type WorkSubjectRepo = catalog.WorkSubjectRepo
type BookListRepo = catalog.BookListRepo
type BookListItemRepo = catalog.BookListItemRepo
type MergeLogRepo = catalog.MergeLogRepo
type ResolverCacheRepo = catalog.ResolverCacheRepo
type ResolverLogRepo = catalog.ResolverLogRepo

type UserRepo = signals.UserRepo
type UserBookEventRepo = signals.UserBookEventRepo
type ReadingSessionRepo = signals.ReadingSessionRepo
type ReadingDayUnitRepo = signals.ReadingDayUnitRepo
type ReadingAggregateRepo = signals.ReadingAggregateRepo
type RatingStatRepo = signals.RatingStatRepo
type WorkQualityRepo = signals.WorkQualityRepo
type GraphFeatureRepo = signals.GraphFeatureRepo
type CooccurrenceRepo = signals.CooccurrenceRepo
type UserTasteProfileRepo = signals.UserTasteProfileRepo

type AuthorWorkCount = catalog.AuthorWorkCount
type CoReadNeighbor = signals.CoReadNeighbor

func NewWorkRepo(db *gorm.DB, baseLog *logger.Logger) WorkRepo {
	return catalog.NewWorkRepo(db, baseLog)
}
func NewWorkEditionRepo(db *gorm.DB, baseLog *logger.Logger) WorkEditionRepo {
	return catalog.NewWorkEditionRepo(db, baseLog)
}
func NewAuthorRepo(db *gorm.DB, baseLog *logger.Logger) AuthorRepo {
	return catalog.NewAuthorRepo(db, baseLog)
}
func NewSubjectRepo(db *gorm.DB, baseLog *logger.Logger) SubjectRepo {
	return catalog.NewSubjectRepo(db, baseLog)
}
func NewWorkAuthorRepo(db *gorm.DB, baseLog *logger.Logger) WorkAuthorRepo {
	return catalog.NewWorkAuthorRepo(db, baseLog)
}
func NewWorkSubjectRepo(db *gorm.DB, baseLog *logger.Logger) WorkSubjectRepo {
	return catalog.NewWorkSubjectRepo(db, baseLog)
}
func NewBookListRepo(db *gorm.DB, baseLog *logger.Logger) BookListRepo {
	return catalog.NewBookListRepo(db, baseLog)
}
func NewBookListItemRepo(db *gorm.DB, baseLog *logger.Logger) BookListItemRepo {
	return catalog.NewBookListItemRepo(db, baseLog)
}
func NewMergeLogRepo(db *gorm.DB, baseLog *logger.Logger) MergeLogRepo {
	return catalog.NewMergeLogRepo(db, baseLog)
}
func NewResolverCacheRepo(db *gorm.DB, baseLog *logger.Logger) ResolverCacheRepo {
	return catalog.NewResolverCacheRepo(db, baseLog)
}
func NewResolverLogRepo(db *gorm.DB, baseLog *logger.Logger) ResolverLogRepo {
	return catalog.NewResolverLogRepo(db, baseLog)
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return signals.NewUserRepo(db, baseLog)
}
func NewUserBookEventRepo(db *gorm.DB, baseLog *logger.Logger) UserBookEventRepo {
	return signals.NewUserBookEventRepo(db, baseLog)
}
func NewReadingSessionRepo(db *gorm.DB, baseLog *logger.Logger) ReadingSessionRepo {
	return signals.NewReadingSessionRepo(db, baseLog)
}
func NewReadingDayUnitRepo(db *gorm.DB, baseLog *logger.Logger) ReadingDayUnitRepo {
	return signals.NewReadingDayUnitRepo(db, baseLog)
}
func NewReadingAggregateRepo(db *gorm.DB, baseLog *logger.Logger) ReadingAggregateRepo {
	return signals.NewReadingAggregateRepo(db, baseLog)
}
func NewRatingStatRepo(db *gorm.DB, baseLog *logger.Logger) RatingStatRepo {
	return signals.NewRatingStatRepo(db, baseLog)
}
func NewWorkQualityRepo(db *gorm.DB, baseLog *logger.Logger) WorkQualityRepo {
	return signals.NewWorkQualityRepo(db, baseLog)
}
func NewGraphFeatureRepo(db *gorm.DB, baseLog *logger.Logger) GraphFeatureRepo {
	return signals.NewGraphFeatureRepo(db, baseLog)
}
func NewCooccurrenceRepo(db *gorm.DB, baseLog *logger.Logger) CooccurrenceRepo {
	return signals.NewCooccurrenceRepo(db, baseLog)
}
func NewUserTasteProfileRepo(db *gorm.DB, baseLog *logger.Logger) UserTasteProfileRepo {
	return signals.NewUserTasteProfileRepo(db, baseLog)
}
