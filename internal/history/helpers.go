package history

import (
	"database/sql"
	"errors"
	"time"
)

const recordColumns = "id, input_path, output_mode, output_base, language, source_locator, job_id, job_outcome, delivery, status, error_message, started_at, finished_at"

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		rec         Record
		outputBase  sql.NullString
		language    sql.NullString
		locator     sql.NullString
		jobID       sql.NullString
		jobOutcome  sql.NullString
		delivery    sql.NullString
		statusStr   string
		errorMsg    sql.NullString
		startedRaw  string
		finishedRaw sql.NullString
	)
	if err := scanner.Scan(
		&rec.ID,
		&rec.InputPath,
		&rec.OutputMode,
		&outputBase,
		&language,
		&locator,
		&jobID,
		&jobOutcome,
		&delivery,
		&statusStr,
		&errorMsg,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}
	rec.OutputBase = outputBase.String
	rec.Language = language.String
	rec.SourceLocator = locator.String
	rec.JobID = jobID.String
	rec.JobOutcome = jobOutcome.String
	rec.Delivery = delivery.String
	rec.Status = Status(statusStr)
	rec.ErrorMessage = errorMsg.String
	if started, err := parseTimeString(startedRaw); err == nil {
		rec.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			rec.FinishedAt = &finished
		}
	}
	return &rec, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
