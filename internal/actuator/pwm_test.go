package actuator

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDutyCycleNs(t *testing.T) {
	// 2% of a 20 ms frame at 0 degrees, 7% at 90, 12% at 180.
	assert.Equal(t, 400_000, dutyCycleNs(0))
	assert.Equal(t, 1_400_000, dutyCycleNs(90))
	assert.Equal(t, 2_400_000, dutyCycleNs(180))
}

// fakeChip lays out a pwmchip directory the way the kernel would after both
// channels have been exported.
func fakeChip(t *testing.T) string {
	chip := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(chip, "export"), nil, 0o644))
	for _, ch := range []string{"pwm0", "pwm1"} {
		dir := filepath.Join(chip, ch)
		require.NoError(t, os.Mkdir(dir, 0o755))
		for _, f := range []string{"period", "duty_cycle", "enable"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, f), nil, 0o644))
		}
	}
	return chip
}

func readInt(t *testing.T, path string) int {
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	n, err := strconv.Atoi(string(data))
	require.NoError(t, err)
	return n
}

func TestPWMPointWritesDutyCycles(t *testing.T) {
	chip := fakeChip(t)

	drv, err := NewPWM(chip, 0, 1)
	require.NoError(t, err)

	require.NoError(t, drv.Point(90, 45))
	assert.Equal(t, dutyCycleNs(90), readInt(t, filepath.Join(chip, "pwm0", "duty_cycle")))
	assert.Equal(t, dutyCycleNs(45), readInt(t, filepath.Join(chip, "pwm1", "duty_cycle")))

	assert.Equal(t, periodNs, readInt(t, filepath.Join(chip, "pwm0", "period")))
	assert.Equal(t, 1, readInt(t, filepath.Join(chip, "pwm0", "enable")))
}

func TestPWMParkIsRepeatable(t *testing.T) {
	chip := fakeChip(t)

	drv, err := NewPWM(chip, 0, 1)
	require.NoError(t, err)

	require.NoError(t, drv.Park())
	require.NoError(t, drv.Park())
	assert.Equal(t, dutyCycleNs(0), readInt(t, filepath.Join(chip, "pwm0", "duty_cycle")))
	assert.Equal(t, dutyCycleNs(0), readInt(t, filepath.Join(chip, "pwm1", "duty_cycle")))
}

func TestPWMMissingChip(t *testing.T) {
	_, err := NewPWM(filepath.Join(t.TempDir(), "nope"), 0, 1)
	assert.Error(t, err)
}
