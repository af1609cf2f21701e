// Package db persists prediction history in SQLite.
package db

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"solarcast/model"
)

// DB wraps the SQLite handle used for prediction history.
type DB struct {
	conn *sql.DB
}

// PredictionRecord is one stored prediction.
type PredictionRecord struct {
	ID               int64     `json:"id"`
	DateHour         float64   `json:"date_hour"`
	WindSpeed        float64   `json:"wind_speed"`
	Sunshine         float64   `json:"sunshine"`
	AirPressure      float64   `json:"air_pressure"`
	Radiation        float64   `json:"radiation"`
	AirTemperature   float64   `json:"air_temperature"`
	RelativeHumidity float64   `json:"relative_humidity"`
	Prediction       float64   `json:"prediction"`
	CreatedAt        time.Time `json:"created_at"`
}

// Open opens (creating if needed) the history database.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	query := `
    CREATE TABLE IF NOT EXISTS predictions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        date_hour REAL NOT NULL,
        wind_speed REAL NOT NULL,
        sunshine REAL NOT NULL,
        air_pressure REAL NOT NULL,
        radiation REAL NOT NULL,
        air_temperature REAL NOT NULL,
        relative_humidity REAL NOT NULL,
        prediction REAL NOT NULL,
        created_at DATETIME NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_predictions_created_at
        ON predictions(created_at);
    `
	if _, err := conn.Exec(query); err != nil {
		conn.Close()
		return nil, err
	}

	return &DB{conn: conn}, nil
}

// Close releases the underlying handle.
func (d *DB) Close() error {
	return d.conn.Close()
}

// SavePrediction stores one completed prediction. Satisfies
// predictor.Recorder.
func (d *DB) SavePrediction(features model.FeatureVector, prediction float64, at time.Time) error {
	_, err := d.conn.Exec(`
        INSERT INTO predictions (
            date_hour, wind_speed, sunshine, air_pressure,
            radiation, air_temperature, relative_humidity,
            prediction, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		features.DateHour,
		features.WindSpeed,
		features.Sunshine,
		features.AirPressure,
		features.Radiation,
		features.AirTemperature,
		features.RelativeHumidity,
		prediction,
		at.UTC(),
	)
	return err
}

// RecentPredictions returns the newest records first, up to limit.
func (d *DB) RecentPredictions(limit int) ([]PredictionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.conn.Query(`
        SELECT id, date_hour, wind_speed, sunshine, air_pressure,
               radiation, air_temperature, relative_humidity,
               prediction, created_at
        FROM predictions
        ORDER BY created_at DESC, id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]PredictionRecord, 0, limit)
	for rows.Next() {
		var r PredictionRecord
		if err := rows.Scan(
			&r.ID, &r.DateHour, &r.WindSpeed, &r.Sunshine, &r.AirPressure,
			&r.Radiation, &r.AirTemperature, &r.RelativeHumidity,
			&r.Prediction, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
