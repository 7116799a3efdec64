package actuator

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Servo PWM timing: 50 Hz frame, 1 ms pulse at 0 degrees to 2 ms at 180.
const (
	periodNs = 20_000_000 // 20 ms frame
	pwmFreq  = 50
)

// PWM drives two hobby servos through the Linux sysfs PWM interface
// (/sys/class/pwm/pwmchipN). Each axis is one hardware PWM channel.
type PWM struct {
	azimuth   pwmChannel
	elevation pwmChannel
}

type pwmChannel struct {
	dir string
}

// NewPWM exports both channels on the given chip and configures them for
// 50 Hz servo operation.
func NewPWM(chipPath string, azimuthChannel, elevationChannel int) (*PWM, error) {
	az, err := openChannel(chipPath, azimuthChannel)
	if err != nil {
		return nil, fmt.Errorf("azimuth channel: %w", err)
	}
	el, err := openChannel(chipPath, elevationChannel)
	if err != nil {
		return nil, fmt.Errorf("elevation channel: %w", err)
	}
	return &PWM{azimuth: az, elevation: el}, nil
}

func openChannel(chipPath string, channel int) (pwmChannel, error) {
	ch := pwmChannel{dir: filepath.Join(chipPath, fmt.Sprintf("pwm%d", channel))}

	// Exporting an already-exported channel fails; a present channel
	// directory means a previous run left it exported, which is fine.
	if _, err := os.Stat(ch.dir); os.IsNotExist(err) {
		if err := writeSysfs(filepath.Join(chipPath, "export"), strconv.Itoa(channel)); err != nil {
			return pwmChannel{}, fmt.Errorf("exporting channel %d: %w", channel, err)
		}
	}

	if err := ch.write("period", strconv.Itoa(periodNs)); err != nil {
		return pwmChannel{}, err
	}
	if err := ch.write("enable", "1"); err != nil {
		return pwmChannel{}, err
	}
	return ch, nil
}

func (c pwmChannel) write(file, value string) error {
	return writeSysfs(filepath.Join(c.dir, file), value)
}

func (c pwmChannel) setAngle(angle float64) error {
	return c.write("duty_cycle", strconv.Itoa(dutyCycleNs(angle)))
}

// dutyCycleNs converts a servo angle into a pulse width in nanoseconds.
// The duty percentage follows the usual hobby-servo rule: angle/18 + 2,
// i.e. 2% of the frame at 0 degrees and 12% at 180.
func dutyCycleNs(angle float64) int {
	duty := angle/18.0 + 2.0
	return int(periodNs * duty / 100.0)
}

// Point moves both servos. The elevation axis is left where it was when the
// azimuth write fails, so the error reports which axis faulted.
func (p *PWM) Point(azimuth, elevation float64) error {
	if err := p.azimuth.setAngle(azimuth); err != nil {
		return fmt.Errorf("azimuth write failed: %w", err)
	}
	if err := p.elevation.setAngle(elevation); err != nil {
		return fmt.Errorf("elevation write failed: %w", err)
	}
	return nil
}

// Park returns the mount to its home position.
func (p *PWM) Park() error {
	return p.Point(0, 0)
}

// Close disables both PWM channels. The mount should be parked first.
func (p *PWM) Close() error {
	azErr := p.azimuth.write("enable", "0")
	elErr := p.elevation.write("enable", "0")
	if azErr != nil {
		return azErr
	}
	return elErr
}

func writeSysfs(path, value string) error {
	return os.WriteFile(path, []byte(value), 0o644)
}
