package gormrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"statemark/internal/adapter/repo/gorm/model"
	"statemark/internal/app/ports"
	"statemark/internal/domain/state"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const storeAttempts = 3

type BookmarkRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewBookmarkRepo(db *gorm.DB) BookmarkRepo {
	return BookmarkRepo{db: db, now: time.Now}
}

func (r BookmarkRepo) Store(ctx context.Context, token state.Token) (string, error) {
	for attempt := 0; attempt < storeAttempts; attempt++ {
		id := newBookmarkID()
		m := model.BookmarkRecord{
			ID:        id,
			Token:     string(token),
			CreatedAt: r.now().UTC(),
		}
		res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
		if res.Error != nil {
			return "", storageErr("store bookmark", res.Error)
		}
		if res.RowsAffected == 0 {
			// Identifier collision, regenerate.
			continue
		}
		return id, nil
	}
	return "", fmt.Errorf("store bookmark: exhausted %d id attempts: %w", storeAttempts, ports.ErrStorage)
}

func (r BookmarkRepo) Resolve(ctx context.Context, id string) (state.Token, error) {
	var m model.BookmarkRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ports.ErrNotFound
		}
		return "", storageErr("resolve bookmark", err)
	}
	return state.Token(m.Token), nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, ports.ErrStorage)
}

func newBookmarkID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}
