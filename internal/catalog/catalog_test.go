package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evisdrenova/zonaei-skill/internal/catalog"
	"github.com/evisdrenova/zonaei-skill/internal/metrics"
)

func TestStageFromProgram(t *testing.T) {
	assert.Equal(t, "Discover", catalog.StageFromProgram("Tec Lean Discover"))
	assert.Equal(t, "Grow", catalog.StageFromProgram("Grow"))
	assert.Equal(t, "", catalog.StageFromProgram(""))
	// only the first occurrence goes
	assert.Equal(t, "Tec Lean Tec Lean ", catalog.StageFromProgram("Tec Lean Tec Lean Tec Lean "))
}

type fakeCatalog struct {
	err error
}

func (f fakeCatalog) ProgramByName(context.Context, string) (*catalog.Program, error) {
	return &catalog.Program{Name: "p"}, f.err
}

func (f fakeCatalog) ProjectsByStage(context.Context, string) ([]catalog.Project, error) {
	return nil, f.err
}

func (f fakeCatalog) ProjectByName(context.Context, string) (*catalog.Project, error) {
	return nil, f.err
}

func TestInstrumented_PassesThroughAndObserves(t *testing.T) {
	c := catalog.NewInstrumented(fakeCatalog{})

	p, err := c.ProgramByName(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "p", p.Name)

	ps, err := c.ProjectsByStage(context.Background(), "s")
	require.NoError(t, err)
	assert.Empty(t, ps)

	boom := errors.New("down")
	_, err = catalog.NewInstrumented(fakeCatalog{err: boom}).ProjectByName(context.Background(), "x")
	assert.ErrorIs(t, err, boom)

	assert.GreaterOrEqual(t, testutil.CollectAndCount(metrics.CatalogDuration), 3)
}
