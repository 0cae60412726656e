package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// WGS84 ellipsoid & UTM constants.
const (
	wgs84A         = 6378137.0
	wgs84F         = 1 / 298.257223563
	utmK0          = 0.9996
	utmFalseEast   = 500000.0
	utmFalseNorth  = 10000000.0
	utmZoneWidthDg = 6.0
)

// utm transverse mercator, formula dari Snyder "Map Projections: A Working Manual" (USGS 1987) hal 61-64.
// error round trip < 1mm di dalam zone, cukup buat jarak street level.
type utm struct {
	zone    int
	south   bool
	lon0    float64 // central meridian, radians
	e2      float64
	ep2     float64
	e1      float64
	mFactor [4]float64
}

func newUTM(zone int, south bool) *utm {
	e2 := wgs84F * (2 - wgs84F)
	e4 := e2 * e2
	e6 := e4 * e2
	sqrt1e2 := math.Sqrt(1 - e2)
	return &utm{
		zone:  zone,
		south: south,
		lon0:  degreeToRadians(float64(zone-1)*utmZoneWidthDg - 180 + utmZoneWidthDg/2),
		e2:    e2,
		ep2:   e2 / (1 - e2),
		e1:    (1 - sqrt1e2) / (1 + sqrt1e2),
		mFactor: [4]float64{
			1 - e2/4 - 3*e4/64 - 5*e6/256,
			3*e2/8 + 3*e4/32 + 45*e6/1024,
			15*e4/256 + 45*e6/1024,
			35 * e6 / 3072,
		},
	}
}

// meridianArc distance along the central meridian from the equator to latitude phi.
func (u *utm) meridianArc(phi float64) float64 {
	return wgs84A * (u.mFactor[0]*phi -
		u.mFactor[1]*math.Sin(2*phi) +
		u.mFactor[2]*math.Sin(4*phi) -
		u.mFactor[3]*math.Sin(6*phi))
}

func (u *utm) forward(p orb.Point) orb.Point {
	phi := degreeToRadians(p.Lat())
	lambda := degreeToRadians(p.Lon())

	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
	tanPhi := math.Tan(phi)

	n := wgs84A / math.Sqrt(1-u.e2*sinPhi*sinPhi)
	t := tanPhi * tanPhi
	c := u.ep2 * cosPhi * cosPhi
	a := cosPhi * (lambda - u.lon0)
	m := u.meridianArc(phi)

	a2 := a * a
	a3 := a2 * a
	a4 := a3 * a
	a5 := a4 * a
	a6 := a5 * a

	x := utmK0*n*(a+(1-t+c)*a3/6+(5-18*t+t*t+72*c-58*u.ep2)*a5/120) + utmFalseEast
	y := utmK0 * (m + n*tanPhi*(a2/2+(5-t+9*c+4*c*c)*a4/24+(61-58*t+t*t+600*c-330*u.ep2)*a6/720))
	if u.south {
		y += utmFalseNorth
	}
	return orb.Point{x, y}
}

func (u *utm) inverse(p orb.Point) orb.Point {
	x := p.X() - utmFalseEast
	y := p.Y()
	if u.south {
		y -= utmFalseNorth
	}

	m := y / utmK0
	mu := m / (wgs84A * u.mFactor[0])

	e1 := u.e1
	e1_2 := e1 * e1
	e1_3 := e1_2 * e1
	e1_4 := e1_3 * e1

	// footpoint latitude
	phi1 := mu +
		(3*e1/2-27*e1_3/32)*math.Sin(2*mu) +
		(21*e1_2/16-55*e1_4/32)*math.Sin(4*mu) +
		(151*e1_3/96)*math.Sin(6*mu) +
		(1097*e1_4/512)*math.Sin(8*mu)

	sinPhi1, cosPhi1 := math.Sin(phi1), math.Cos(phi1)
	tanPhi1 := math.Tan(phi1)

	c1 := u.ep2 * cosPhi1 * cosPhi1
	t1 := tanPhi1 * tanPhi1
	denom := 1 - u.e2*sinPhi1*sinPhi1
	n1 := wgs84A / math.Sqrt(denom)
	r1 := wgs84A * (1 - u.e2) / math.Pow(denom, 1.5)
	d := x / (n1 * utmK0)

	d2 := d * d
	d3 := d2 * d
	d4 := d3 * d
	d5 := d4 * d
	d6 := d5 * d

	phi := phi1 - (n1*tanPhi1/r1)*(d2/2-
		(5+3*t1+10*c1-4*c1*c1-9*u.ep2)*d4/24+
		(61+90*t1+298*c1+45*t1*t1-252*u.ep2-3*c1*c1)*d6/720)
	lambda := u.lon0 + (d-
		(1+2*t1+c1)*d3/6+
		(5-2*c1+28*t1-3*c1*c1+8*u.ep2+24*t1*t1)*d5/120)/cosPhi1

	return orb.Point{radiansToDegree(lambda), radiansToDegree(phi)}
}
