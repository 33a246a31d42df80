package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"crypto-trader/internal/models"
)

// SQLiteStore implements SignalStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based signal journal.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS signals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		symbol TEXT NOT NULL,
		strategy TEXT NOT NULL,
		action TEXT NOT NULL,
		confidence REAL NOT NULL,
		price REAL NOT NULL,
		stop_loss REAL,
		take_profit REAL,
		risk_reward REAL,
		entry_type TEXT,
		reason TEXT,
		indicators TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_signals_symbol ON signals(symbol, timestamp);
	CREATE INDEX IF NOT EXISTS idx_signals_strategy ON signals(strategy, timestamp);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveSignal journals an emitted signal.
func (s *SQLiteStore) SaveSignal(ctx context.Context, sig models.TradingSignal) error {
	var indicatorsJSON []byte
	if sig.Indicators != nil {
		var err error
		indicatorsJSON, err = json.Marshal(sig.Indicators)
		if err != nil {
			return fmt.Errorf("marshaling indicators: %w", err)
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO signals (timestamp, symbol, strategy, action, confidence, price,
			stop_loss, take_profit, risk_reward, entry_type, reason, indicators)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sig.Timestamp, sig.Symbol, sig.Strategy, string(sig.Action), sig.Confidence,
		sig.Price, sig.StopLoss, sig.TakeProfit, sig.RiskReward, sig.EntryType,
		sig.Reason, string(indicatorsJSON),
	)
	if err != nil {
		return fmt.Errorf("saving signal: %w", err)
	}
	return nil
}

// GetSignals queries the journal with the given filter.
func (s *SQLiteStore) GetSignals(ctx context.Context, filter SignalFilter) ([]models.TradingSignal, error) {
	query := `SELECT timestamp, symbol, strategy, action, confidence, price,
		stop_loss, take_profit, risk_reward, entry_type, reason, indicators
		FROM signals`

	var conditions []string
	var args []interface{}

	if filter.Symbol != "" {
		conditions = append(conditions, "symbol = ?")
		args = append(args, filter.Symbol)
	}
	if filter.Strategy != "" {
		conditions = append(conditions, "strategy = ?")
		args = append(args, filter.Strategy)
	}
	if filter.Action != "" {
		conditions = append(conditions, "action = ?")
		args = append(args, string(filter.Action))
	}
	if !filter.From.IsZero() {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, filter.From)
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, "timestamp <= ?")
		args = append(args, filter.To)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY timestamp DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying signals: %w", err)
	}
	defer rows.Close()

	var signals []models.TradingSignal
	for rows.Next() {
		var sig models.TradingSignal
		var action, indicatorsJSON string
		var stopLoss, takeProfit, riskReward sql.NullFloat64
		var entryType, reason sql.NullString

		if err := rows.Scan(&sig.Timestamp, &sig.Symbol, &sig.Strategy, &action,
			&sig.Confidence, &sig.Price, &stopLoss, &takeProfit, &riskReward,
			&entryType, &reason, &indicatorsJSON); err != nil {
			return nil, fmt.Errorf("scanning signal: %w", err)
		}

		sig.Action = models.SignalAction(action)
		sig.StopLoss = stopLoss.Float64
		sig.TakeProfit = takeProfit.Float64
		sig.RiskReward = riskReward.Float64
		sig.EntryType = entryType.String
		sig.Reason = reason.String

		if indicatorsJSON != "" {
			if err := json.Unmarshal([]byte(indicatorsJSON), &sig.Indicators); err != nil {
				sig.Indicators = nil
			}
		}

		signals = append(signals, sig)
	}

	return signals, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
