package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapAnglesMirroredSector(t *testing.T) {
	// 200/80 wraps to 20/100, then the clearance offset brings elevation to 95.
	az, el := MapAngles(200, 80)
	assert.Equal(t, 20.0, az)
	assert.Equal(t, 95.0, el)
}

func TestMapAnglesDirectSector(t *testing.T) {
	az, el := MapAngles(90, 40)
	assert.Equal(t, 90.0, az)
	assert.Equal(t, 35.0, el)
}

func TestMapAnglesClearanceFloor(t *testing.T) {
	// The offset never drives elevation below the horizon stop.
	az, el := MapAngles(45, 3)
	assert.Equal(t, 45.0, az)
	assert.Equal(t, 0.0, el)
}

func TestMapAnglesBoundary(t *testing.T) {
	// Exactly 180 stays in the direct sector.
	az, el := MapAngles(180, 90)
	assert.Equal(t, 180.0, az)
	assert.Equal(t, 85.0, el)
}

func TestMapAnglesOutputsWithinTravel(t *testing.T) {
	for az := 0.0; az < 360; az += 7.3 {
		for el := 0.0; el <= 90; el += 4.7 {
			mappedAz, mappedEl := MapAngles(az, el)
			assert.GreaterOrEqual(t, mappedAz, 0.0)
			assert.LessOrEqual(t, mappedAz, 180.0)
			assert.GreaterOrEqual(t, mappedEl, 0.0)
			assert.LessOrEqual(t, mappedEl, 180.0)
		}
	}
}

func TestMapAnglesDeterministic(t *testing.T) {
	az1, el1 := MapAngles(237.4, 61.2)
	az2, el2 := MapAngles(237.4, 61.2)
	assert.Equal(t, az1, az2)
	assert.Equal(t, el1, el2)
}
