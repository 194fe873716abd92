package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/shelfsignal-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:    uuid.New(),
		Email: email,
		Name:  "reader",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedWork(tb testing.TB, ctx context.Context, tx *gorm.DB, title string) *types.Work {
	tb.Helper()
	w := &types.Work{
		ID:    uuid.New(),
		Title: title,
	}
	if err := tx.WithContext(ctx).Create(w).Error; err != nil {
		tb.Fatalf("seed work: %v", err)
	}
	return w
}

func SeedWorkWithEmbedding(tb testing.TB, ctx context.Context, tx *gorm.DB, title string, vec []float32) *types.Work {
	tb.Helper()
	w := &types.Work{
		ID:    uuid.New(),
		Title: title,
	}
	if err := w.SetEmbeddingVector(vec); err != nil {
		tb.Fatalf("encode embedding: %v", err)
	}
	if err := tx.WithContext(ctx).Create(w).Error; err != nil {
		tb.Fatalf("seed work: %v", err)
	}
	return w
}

func SeedAuthor(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Author {
	tb.Helper()
	a := &types.Author{
		ID:   uuid.New(),
		Name: name,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed author: %v", err)
	}
	return a
}

func SeedSubject(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Subject {
	tb.Helper()
	s := &types.Subject{
		ID:   uuid.New(),
		Name: name,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed subject: %v", err)
	}
	return s
}

func LinkWorkAuthor(tb testing.TB, ctx context.Context, tx *gorm.DB, workID, authorID uuid.UUID) *types.WorkAuthor {
	tb.Helper()
	wa := &types.WorkAuthor{
		ID:       uuid.New(),
		WorkID:   workID,
		AuthorID: authorID,
	}
	if err := tx.WithContext(ctx).Create(wa).Error; err != nil {
		tb.Fatalf("link work author: %v", err)
	}
	return wa
}

func LinkWorkSubject(tb testing.TB, ctx context.Context, tx *gorm.DB, workID, subjectID uuid.UUID) *types.WorkSubject {
	tb.Helper()
	ws := &types.WorkSubject{
		ID:        uuid.New(),
		WorkID:    workID,
		SubjectID: subjectID,
	}
	if err := tx.WithContext(ctx).Create(ws).Error; err != nil {
		tb.Fatalf("link work subject: %v", err)
	}
	return ws
}

func SeedEdition(tb testing.TB, ctx context.Context, tx *gorm.DB, workID uuid.UUID, isbn13 string) *types.WorkEdition {
	tb.Helper()
	e := &types.WorkEdition{
		ID:     uuid.New(),
		WorkID: workID,
		ISBN13: isbn13,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed edition: %v", err)
	}
	return e
}

func SeedBookEvent(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, workID uuid.UUID, shelf, source string) *types.UserBookEvent {
	tb.Helper()
	ev := &types.UserBookEvent{
		ID:     uuid.New(),
		UserID: userID,
		WorkID: workID,
		Source: source,
		Shelf:  shelf,
	}
	if err := tx.WithContext(ctx).Create(ev).Error; err != nil {
		tb.Fatalf("seed book event: %v", err)
	}
	return ev
}

func SeedBookList(tb testing.TB, ctx context.Context, tx *gorm.DB, title string) *types.BookList {
	tb.Helper()
	l := &types.BookList{
		ID:    uuid.New(),
		Title: title,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed book list: %v", err)
	}
	return l
}

func SeedBookListItem(tb testing.TB, ctx context.Context, tx *gorm.DB, listID, workID uuid.UUID, position int) *types.BookListItem {
	tb.Helper()
	it := &types.BookListItem{
		ID:       uuid.New(),
		ListID:   listID,
		WorkID:   workID,
		Position: position,
	}
	if err := tx.WithContext(ctx).Create(it).Error; err != nil {
		tb.Fatalf("seed book list item: %v", err)
	}
	return it
}

func SeedRatingStat(tb testing.TB, ctx context.Context, tx *gorm.DB, workID uuid.UUID, source string, avg float64, count int) *types.RatingStat {
	tb.Helper()
	rs := &types.RatingStat{
		ID:     uuid.New(),
		WorkID: workID,
		Source: source,
		Avg:    avg,
		Count:  count,
	}
	if err := tx.WithContext(ctx).Create(rs).Error; err != nil {
		tb.Fatalf("seed rating stat: %v", err)
	}
	return rs
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrInt(v int) *int { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
