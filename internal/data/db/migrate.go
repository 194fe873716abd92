package db

import (
	"gorm.io/gorm"

	types "github.com/yungbote/shelfsignal-backend/internal/domain"
)

func AutoMigrateAll(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&types.User{},

		&types.Work{},
		&types.WorkEdition{},
		&types.Author{},
		&types.Subject{},
		&types.WorkAuthor{},
		&types.WorkSubject{},
		&types.BookList{},
		&types.BookListItem{},

		&types.UserBookEvent{},
		&types.ReadingSession{},
		&types.ReadingDayUnit{},
		&types.ReadingAggregate{},

		&types.RatingStat{},
		&types.WorkQuality{},
		&types.GraphFeature{},
		&types.Cooccurrence{},
		&types.UserTasteProfile{},

		&types.MergeLog{},
		&types.ResolverCacheEntry{},
		&types.ResolverLog{},
	)
}

func (s *PostgresService) AutoMigrateAll() error {
	return AutoMigrateAll(s.db)
}
