package bench

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/dispatch"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	require.Equal(t, "", cfg.Policy)
	require.Equal(t, 20, cfg.Edits)
	require.Equal(t, 50*time.Millisecond, cfg.Interval)
	require.Equal(t, 4, cfg.Jobs)
	require.Equal(t, 100*time.Millisecond, cfg.JobDuration)
	require.Equal(t, 0, cfg.Workers)
	require.Equal(t, dispatch.DefaultDelay, cfg.Delay)
	require.Equal(t, 0, cfg.FailEvery)
	require.Equal(t, "dev", cfg.LogFormat)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("policy", "queued,delay")
	v.Set("edits", 3)
	v.Set("interval", "2ms")
	v.Set("job-duration", "7ms")

	cfg, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, "queued,delay", cfg.Policy)
	require.Equal(t, 3, cfg.Edits)
	require.Equal(t, 2*time.Millisecond, cfg.Interval)
	require.Equal(t, 7*time.Millisecond, cfg.JobDuration)
	require.Equal(t, 4, cfg.Jobs)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   interface{}
		wantErr error
	}{
		{name: "policy", key: "policy", value: "sideways", wantErr: dispatch.ErrInvalidPolicy},
		{name: "edits", key: "edits", value: 0, wantErr: ErrInvalidConfig},
		{name: "workers", key: "workers", value: -1, wantErr: ErrInvalidConfig},
		{name: "delay", key: "delay", value: "0s", wantErr: ErrInvalidConfig},
		{name: "log format", key: "log-format", value: "xml", wantErr: ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.value)
			_, err := Load(v)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
