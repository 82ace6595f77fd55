package store

import (
	"context"
	"time"
)

// Run statuses recorded in the processing log.
const (
	RunStarted   = "started"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// StartRun opens a processing-log row for a pipeline phase and returns
// its id for the matching FinishRun call.
func (d *DB) StartRun(ctx context.Context, processType, targetUserID string) (int64, error) {
	res, err := d.exec(ctx, `
	INSERT INTO processing_log(process_type, status, target_user_id, started_at)
	VALUES(?,?,?,?)`, processType, RunStarted, targetUserID, time.Now().UTC().Unix())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// FinishRun closes a processing-log row with its outcome.
func (d *DB) FinishRun(ctx context.Context, id int64, status string, records int, errMsg string) error {
	_, err := d.exec(ctx, `
	UPDATE processing_log SET status=?, records_processed=?, error_message=?, completed_at=? WHERE id=?`,
		status, records, errMsg, time.Now().UTC().Unix(), id)
	return err
}
