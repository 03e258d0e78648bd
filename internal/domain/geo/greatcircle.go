package geo

import "math"

const (
	earthRadiusMiles = 3958.8

	// Angles below this are treated as coincident, angles within it of
	// pi as antipodal.
	angleEpsilon = 1e-9
)

// Point is a geographic coordinate (WGS 84).
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DistanceMiles computes the haversine great-circle distance in miles.
func DistanceMiles(a, b Point) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMiles * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Path samples numPoints evenly spaced positions along the great-circle
// arc from origin to destination, both endpoints included. Coincident
// endpoints collapse to a single-point path. Antipodal endpoints have no
// unique great circle; a deterministic perpendicular basis is used so the
// same input always yields the same path.
func Path(origin, destination Point, numPoints int) []Point {
	if numPoints < 2 {
		numPoints = 2
	}

	a := toVector(origin)
	b := toVector(destination)

	dot := clamp(a.dot(b), -1, 1)
	omega := math.Acos(dot)

	if omega < angleEpsilon {
		return []Point{origin}
	}

	var perp vector
	antipodal := math.Pi-omega < angleEpsilon
	if antipodal {
		perp = perpendicularOf(a)
	}

	sinOmega := math.Sin(omega)
	path := make([]Point, numPoints)
	for i := 0; i < numPoints; i++ {
		f := float64(i) / float64(numPoints-1)
		var v vector
		if antipodal {
			// Walk half a circle through the fixed perpendicular.
			v = a.scale(math.Cos(math.Pi * f)).add(perp.scale(math.Sin(math.Pi * f)))
		} else {
			v = a.scale(math.Sin((1-f)*omega) / sinOmega).add(b.scale(math.Sin(f*omega) / sinOmega))
		}
		path[i] = toPoint(v)
	}

	path[0] = origin
	path[numPoints-1] = destination
	return path
}

// PositionAt maps progress in [0,1] linearly onto the path index,
// interpolating between adjacent samples for smooth animation. Progress
// outside the range is clamped.
func PositionAt(path []Point, progress float64) Point {
	if len(path) == 0 {
		return Point{}
	}
	if len(path) == 1 {
		return path[0]
	}

	progress = clamp(progress, 0, 1)
	pos := progress * float64(len(path)-1)
	idx := int(math.Floor(pos))
	if idx >= len(path)-1 {
		return path[len(path)-1]
	}

	// Adjacent samples are close together, so linear lat/lon blending is
	// a safe approximation of the arc between them.
	frac := pos - float64(idx)
	lo, hi := path[idx], path[idx+1]
	return Point{
		Lat: lo.Lat + (hi.Lat-lo.Lat)*frac,
		Lon: lo.Lon + (hi.Lon-lo.Lon)*frac,
	}
}

type vector struct{ x, y, z float64 }

func toVector(p Point) vector {
	lat := p.Lat * math.Pi / 180
	lon := p.Lon * math.Pi / 180
	return vector{
		x: math.Cos(lat) * math.Cos(lon),
		y: math.Cos(lat) * math.Sin(lon),
		z: math.Sin(lat),
	}
}

func toPoint(v vector) Point {
	return Point{
		Lat: math.Asin(clamp(v.z, -1, 1)) * 180 / math.Pi,
		Lon: math.Atan2(v.y, v.x) * 180 / math.Pi,
	}
}

func (v vector) dot(o vector) float64 { return v.x*o.x + v.y*o.y + v.z*o.z }

func (v vector) add(o vector) vector { return vector{v.x + o.x, v.y + o.y, v.z + o.z} }

func (v vector) scale(s float64) vector { return vector{v.x * s, v.y * s, v.z * s} }

func (v vector) cross(o vector) vector {
	return vector{
		x: v.y*o.z - v.z*o.y,
		y: v.z*o.x - v.x*o.z,
		z: v.x*o.y - v.y*o.x,
	}
}

func (v vector) norm() vector {
	length := math.Sqrt(v.dot(v))
	if length == 0 {
		return v
	}
	return v.scale(1 / length)
}

// perpendicularOf crosses v with the axis it is least aligned with,
// giving a stable unit vector orthogonal to v.
func perpendicularOf(v vector) vector {
	axis := vector{x: 1}
	ax, ay, az := math.Abs(v.x), math.Abs(v.y), math.Abs(v.z)
	if ay <= ax && ay <= az {
		axis = vector{y: 1}
	} else if az <= ax && az <= ay {
		axis = vector{z: 1}
	}
	return v.cross(axis).norm()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
