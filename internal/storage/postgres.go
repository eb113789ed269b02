package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/Gorio76/meeting-notes-flow/internal/config"
	"github.com/Gorio76/meeting-notes-flow/internal/report"
	"github.com/Gorio76/meeting-notes-flow/pkg/redis"
)

type PostgresStorage struct {
	db     *sqlx.DB
	redis  *redis.Client
	logger *zap.Logger
}

// Meeting is one archived interview: the client identity, the rendered
// report text and the quote total at archive time.
type Meeting struct {
	ID         int64     `db:"id"`
	ChatID     int64     `db:"chat_id"`
	Company    string    `db:"company"`
	Referent   string    `db:"referent"`
	Context    string    `db:"context"`
	Report     string    `db:"report"`
	OrderTotal float64   `db:"order_total"`
	CreatedAt  time.Time `db:"created_at"`
}

// MeetingLine is the archived form of one order line, with the prices the
// pricing engine produced at archive time.
type MeetingLine struct {
	ID          string  `db:"id"`
	MeetingID   int64   `db:"meeting_id"`
	Position    int     `db:"position"`
	Code        string  `db:"code"`
	Description string  `db:"description"`
	GrossPrice  float64 `db:"gross_price"`
	Discount1   float64 `db:"discount1"`
	Discount2   float64 `db:"discount2"`
	Discount3   float64 `db:"discount3"`
	Discount4   float64 `db:"discount4"`
	Quantity    float64 `db:"quantity"`
	NetUnit     float64 `db:"net_unit"`
	LineTotal   float64 `db:"line_total"`
}

func NewPostgresStorage(ctx context.Context, cfg config.Database, redisClient *redis.Client, logger *zap.Logger) (*PostgresStorage, error) {
	const operation = "storage.NewPostgresStorage"

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
	)

	var db *sqlx.DB
	var err error

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = 2 * time.Minute
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("Connecting to PostgreSQL...")

	err = backoff.RetryNotify(
		func() error {
			db, err = sqlx.ConnectContext(ctx, "postgres", connStr)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}

			if err = db.PingContext(ctx); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
			return nil
		},
		retryPolicy,
		func(err error, duration time.Duration) {
			logger.Warn("PostgreSQL connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", duration))
		},
	)

	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	logger.Info("Successfully connected to PostgreSQL")
	return &PostgresStorage{
		db:     db,
		redis:  redisClient,
		logger: logger,
	}, nil
}

// SaveMeeting archives a finished meeting and its order lines in one
// transaction, returning the meeting id.
func (s *PostgresStorage) SaveMeeting(ctx context.Context, meeting Meeting, lines []report.OrderLine) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	const meetingQuery = `
        INSERT INTO meetings (
            chat_id, company, referent, context, report, order_total, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `

	var meetingID int64
	err = tx.QueryRowContext(ctx, meetingQuery,
		meeting.ChatID,
		meeting.Company,
		meeting.Referent,
		meeting.Context,
		meeting.Report,
		meeting.OrderTotal,
		meeting.CreatedAt,
	).Scan(&meetingID)
	if err != nil {
		return 0, fmt.Errorf("failed to save meeting: %w", err)
	}

	const lineQuery = `
        INSERT INTO meeting_lines (
            id, meeting_id, position, code, description, gross_price,
            discount1, discount2, discount3, discount4,
            quantity, net_unit, line_total
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
    `

	for i, l := range lines {
		net, total := l.Compute()
		if _, err := tx.ExecContext(ctx, lineQuery,
			l.ID.String(),
			meetingID,
			i,
			l.Code,
			l.Description,
			l.GrossPrice,
			l.Discounts[0],
			l.Discounts[1],
			l.Discounts[2],
			l.Discounts[3],
			l.Quantity,
			net,
			total,
		); err != nil {
			return 0, fmt.Errorf("failed to save meeting line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit meeting: %w", err)
	}

	// Invalidate statistics cache
	if err := s.redis.Del(ctx, "meeting_stats"); err != nil {
		s.logger.Warn("Failed to invalidate statistics cache", zap.Error(err))
	}

	return meetingID, nil
}

func (s *PostgresStorage) GetMeetingByID(ctx context.Context, meetingID int64) (*Meeting, error) {
	const query = `SELECT * FROM meetings WHERE id = $1`
	var meeting Meeting
	err := s.db.GetContext(ctx, &meeting, query, meetingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("meeting not found")
		}
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}
	return &meeting, nil
}

func (s *PostgresStorage) GetMeetingLines(ctx context.Context, meetingID int64) ([]MeetingLine, error) {
	const query = `SELECT * FROM meeting_lines WHERE meeting_id = $1 ORDER BY position`
	var lines []MeetingLine
	if err := s.db.SelectContext(ctx, &lines, query, meetingID); err != nil {
		return nil, fmt.Errorf("failed to get meeting lines: %w", err)
	}
	return lines, nil
}

type MeetingStatistics struct {
	TotalMeetings int     `db:"total_meetings"`
	TotalOrdered  float64 `db:"total_ordered"`
	WeekMeetings  int     `db:"-"`
	WeekOrdered   float64 `db:"-"`
	MonthMeetings int     `db:"-"`
	MonthOrdered  float64 `db:"-"`
}

func (s *PostgresStorage) GetMeetingStatistics(ctx context.Context) (*MeetingStatistics, error) {
	cacheKey := "meeting_stats"

	// Try Redis first
	if cached, err := s.redis.Get(ctx, cacheKey); err == nil {
		var stats MeetingStatistics
		if err := json.Unmarshal(cached, &stats); err == nil {
			return &stats, nil
		}
	}

	stats := &MeetingStatistics{}

	err := s.db.GetContext(ctx, stats, `
        SELECT
            COUNT(*) as total_meetings,
            COALESCE(SUM(order_total), 0) as total_ordered
        FROM meetings
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to get meeting totals: %w", err)
	}

	type countTotal struct {
		Count int     `db:"count"`
		Total float64 `db:"total"`
	}

	var week countTotal
	err = s.db.GetContext(ctx, &week, `
        SELECT
            COUNT(*) as count,
            COALESCE(SUM(order_total), 0) as total
        FROM meetings
        WHERE created_at >= CURRENT_DATE - INTERVAL '7 days'
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to get weekly stats: %w", err)
	}
	stats.WeekMeetings = week.Count
	stats.WeekOrdered = week.Total

	var month countTotal
	err = s.db.GetContext(ctx, &month, `
        SELECT
            COUNT(*) as count,
            COALESCE(SUM(order_total), 0) as total
        FROM meetings
        WHERE created_at >= CURRENT_DATE - INTERVAL '30 days'
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly stats: %w", err)
	}
	stats.MonthMeetings = month.Count
	stats.MonthOrdered = month.Total

	// Cache the result
	if data, err := json.Marshal(stats); err == nil {
		if err := s.redis.Set(ctx, cacheKey, data, 1*time.Hour); err != nil {
			s.logger.Warn("Failed to cache statistics", zap.Error(err))
		}
	}

	return stats, nil
}

// CheckRateLimit counts actions per user in a sliding window backed by a
// Redis counter. Returns true when the caller is over the limit.
func (s *PostgresStorage) CheckRateLimit(ctx context.Context, userID int64, action string, limit int64, window time.Duration) (bool, error) {
	key := fmt.Sprintf("ratelimit:%d:%s", userID, action)

	count, err := s.redis.Incr(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	// Set expiry if this is the first increment
	if count == 1 {
		if _, err := s.redis.Expire(ctx, key, window); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return count > limit, nil
}

func (s *PostgresStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB exposes the underlying connection for migrations.
func (s *PostgresStorage) DB() *sql.DB {
	return s.db.DB
}
