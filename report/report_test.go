package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nandlab/ftlplan/config"
	"github.com/nandlab/ftlplan/geometry"
	"github.com/nandlab/ftlplan/mapping"
)

func TestWrite(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	geom, err := geometry.Derive(cfg)
	require.NoError(t, err)

	layout, err := mapping.NewLayout(cfg, geom)
	require.NoError(t, err)
	defer layout.Close()

	var buf bytes.Buffer
	Write(&buf, cfg, geom, layout)
	out := buf.String()

	require.Contains(t, out, "16.00 GiB")
	require.Contains(t, out, "16384")
	require.Contains(t, out, "4194304")
	require.Contains(t, out, "Block")
	require.Contains(t, out, "Page")
	require.Contains(t, out, "50.0%")
}
