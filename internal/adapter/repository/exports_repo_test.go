package repository

import (
	"context"
	"testing"

	"portfolio/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportsRepo_WithoutPoolIsNoop(t *testing.T) {
	r := NewExportsRepo(nil)
	rec := domain.NewExportRecord(domain.ExportRequest{TargetElementID: "resume-content", Filename: "resume.pdf"})
	require.NoError(t, r.Save(context.Background(), rec))

	recs, err := r.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, recs)

	var nilRepo *ExportsRepo
	assert.NoError(t, nilRepo.Save(context.Background(), rec))
}
