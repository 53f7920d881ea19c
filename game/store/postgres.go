package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/wricardo/mcp-training/gridworld/game/engine"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type gameRow struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Data string `gorm:"column:data;type:text;not null"`
}

func (gameRow) TableName() string { return "games" }

// PostgresStore keeps game rows in postgres through gorm.
type PostgresStore struct {
	dsn string
	db  *gorm.DB
}

func NewPostgresStore(dsn string) *PostgresStore {
	return &PostgresStore{dsn: dsn}
}

// NewPostgresStoreWithDB wraps an already opened connection.
func NewPostgresStoreWithDB(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

func (s *PostgresStore) Init(ctx context.Context) error {
	if s.db == nil {
		if s.dsn == "" {
			return errors.New("postgres dsn is required")
		}
		db, err := OpenPostgres(s.dsn)
		if err != nil {
			return err
		}
		s.db = db
	}

	createGamesSQL := `
CREATE TABLE IF NOT EXISTS games (
  id BIGSERIAL PRIMARY KEY,
  data TEXT NOT NULL
);`
	if err := s.db.WithContext(ctx).Exec(createGamesSQL).Error; err != nil {
		return fmt.Errorf("create games table: %w", err)
	}
	return nil
}

func (s *PostgresStore) getDB(ctx context.Context) (*gorm.DB, error) {
	if s.db == nil {
		return nil, ErrNotInitialized
	}
	return s.db.WithContext(ctx), nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Entry, error) {
	db, err := s.getDB(ctx)
	if err != nil {
		return nil, err
	}

	var rows []gameRow
	if err := db.Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		game, err := DecodeGame([]byte(row.Data))
		if err != nil {
			return nil, fmt.Errorf("game %d: %w", row.ID, err)
		}
		entries = append(entries, Entry{ID: row.ID, Game: game})
	}
	return entries, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (*engine.Game, bool, error) {
	db, err := s.getDB(ctx)
	if err != nil {
		return nil, false, err
	}

	var row gameRow
	if err := db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	game, err := DecodeGame([]byte(row.Data))
	if err != nil {
		return nil, false, fmt.Errorf("game %d: %w", id, err)
	}
	return game, true, nil
}

func (s *PostgresStore) Create(ctx context.Context, game *engine.Game) (int64, error) {
	db, err := s.getDB(ctx)
	if err != nil {
		return 0, err
	}

	data, err := EncodeGame(game)
	if err != nil {
		return 0, err
	}

	row := gameRow{Data: string(data)}
	if err := db.Create(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (s *PostgresStore) Update(ctx context.Context, id int64, game *engine.Game) (bool, error) {
	db, err := s.getDB(ctx)
	if err != nil {
		return false, err
	}

	data, err := EncodeGame(game)
	if err != nil {
		return false, err
	}

	res := db.Model(&gameRow{}).Where("id = ?", id).Update("data", string(data))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) (bool, error) {
	db, err := s.getDB(ctx)
	if err != nil {
		return false, err
	}

	res := db.Where("id = ?", id).Delete(&gameRow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *PostgresStore) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	s.db = nil
	return sqlDB.Close()
}
