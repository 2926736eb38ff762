package migration

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/sirupsen/logrus"
)

// RunMigrations brings the export history schema up to date. It is safe to
// run on every start.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, log logrus.FieldLogger) error {
	if pool == nil {
		return nil
	}
	log.Info("starting database migrations")

	migrations := []Migration{
		{Name: "create_resume_exports", Up: createResumeExports, Required: true},
		{Name: "index_resume_exports_started_at", Up: indexStartedAt},
		{Name: "add_artifact_size_to_resume_exports", Up: addArtifactSize},
	}

	for _, m := range migrations {
		if err := m.Up(ctx, pool); err != nil {
			if m.Required {
				log.WithError(err).WithField("name", m.Name).Error("migration failed")
				return err
			}
			// optional steps may already be applied by hand
			log.WithError(err).WithField("name", m.Name).Warn("migration skipped")
			continue
		}
		log.WithField("name", m.Name).Info("migration completed")
	}
	return nil
}

type Migration struct {
	Name     string
	Up       func(ctx context.Context, pool *pgxpool.Pool) error
	Required bool
}

func createResumeExports(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS resume_exports (
			id                UUID PRIMARY KEY,
			target_element_id TEXT NOT NULL,
			file_name         TEXT NOT NULL,
			status            TEXT NOT NULL,
			error_kind        TEXT NOT NULL DEFAULT '',
			error_message     TEXT NOT NULL DEFAULT '',
			artifact_path     TEXT NOT NULL DEFAULT '',
			started_at        TIMESTAMPTZ NOT NULL,
			finished_at       TIMESTAMPTZ
		);
	`)
	return err
}

func indexStartedAt(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS resume_exports_started_at_idx ON resume_exports (started_at DESC);`)
	return err
}

func addArtifactSize(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `ALTER TABLE resume_exports ADD COLUMN IF NOT EXISTS artifact_size BIGINT NOT NULL DEFAULT 0;`)
	return err
}
