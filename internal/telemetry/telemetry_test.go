package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_DisabledIsNoop(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		opts Options
	}{
		{name: "no endpoint", opts: Options{ServiceName: "regiongrid", Enabled: true}},
		{name: "disabled", opts: Options{ServiceName: "regiongrid", Endpoint: "http://localhost:4318", Enabled: false}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			shutdown, err := Setup(context.Background(), tc.opts)
			require.NoError(t, err)
			require.NotNil(t, shutdown)
			assert.NoError(t, shutdown(context.Background()))
		})
	}
}
