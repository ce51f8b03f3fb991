package camgeom

import "github.com/pkg/errors"

// DistortionType is the name of the distortion model.
type DistortionType string

const (
	// BrownConradyDistortionType is for simple lenses of narrow field easily modeled as a pinhole camera.
	BrownConradyDistortionType = DistortionType("brown_conrady")
	// PlumbBobDistortionType is the ROS calibration name for the same five-coefficient Brown-Conrady model.
	PlumbBobDistortionType = DistortionType("plumb_bob")
)

// Distorter defines a Transform that takes an undistorted image and distorts it according to the model.
type Distorter interface {
	ModelType() DistortionType
	CheckValid() error
	Parameters() []float64
	Transform(x, y float64) (float64, float64)
}

// InvalidDistortionError is used when the distortion_parameters are invalid.
func InvalidDistortionError(msg string) error {
	return errors.Wrapf(errors.New("invalid distortion_parameters"), "%s", msg)
}

// NewDistorter returns a Distorter given a valid DistortionType and its parameters.
func NewDistorter(distortionType DistortionType, parameters []float64) (Distorter, error) {
	switch distortionType {
	case BrownConradyDistortionType, PlumbBobDistortionType:
		return NewBrownConrady(parameters)
	default:
		return nil, errors.Errorf("do not know how to parse %q distortion model", distortionType)
	}
}

// BrownConrady is the Brown-Conrady lens distortion model. Coefficients are
// ordered (k1, k2, p1, p2, k3), the order plumb_bob calibrations list them in.
type BrownConrady struct {
	RadialK1     float64 `json:"rk1"`
	RadialK2     float64 `json:"rk2"`
	TangentialP1 float64 `json:"tp1"`
	TangentialP2 float64 `json:"tp2"`
	RadialK3     float64 `json:"rk3"`
}

// NewBrownConrady takes in a slice of floats that will be passed into the struct in order.
func NewBrownConrady(inp []float64) (*BrownConrady, error) {
	if len(inp) > 5 {
		return nil, errors.Errorf("list of parameters too long, expected max 5, got %d", len(inp))
	}
	if len(inp) == 0 {
		return &BrownConrady{}, nil
	}
	for i := len(inp); i < 5; i++ { // fill missing values with 0.0
		inp = append(inp, 0.0)
	}
	return &BrownConrady{inp[0], inp[1], inp[2], inp[3], inp[4]}, nil
}

// CheckValid checks if the fields for BrownConrady have valid inputs.
func (bc *BrownConrady) CheckValid() error {
	if bc == nil {
		return InvalidDistortionError("BrownConrady shaped distortion_parameters not provided")
	}
	return nil
}

// ModelType returns the type of distortion model.
func (bc *BrownConrady) ModelType() DistortionType {
	return BrownConradyDistortionType
}

// Parameters returns the parameters of the distortion model as a list of floats.
func (bc *BrownConrady) Parameters() []float64 {
	if bc == nil {
		return []float64{}
	}
	return []float64{bc.RadialK1, bc.RadialK2, bc.TangentialP1, bc.TangentialP2, bc.RadialK3}
}

// Transform distorts the normalized image coordinates (x, y):
//
//	x_d = x * (1 + k1*r² + k2*r⁴ + k3*r⁶) + 2*p1*x*y + p2*(r² + 2*x²)
//	y_d = y * (1 + k1*r² + k2*r⁴ + k3*r⁶) + 2*p2*x*y + p1*(r² + 2*y²)
//
// A nil model is the identity.
func (bc *BrownConrady) Transform(x, y float64) (float64, float64) {
	if bc == nil {
		return x, y
	}
	r2 := x*x + y*y
	r4 := r2 * r2
	r6 := r4 * r2
	radDist := 1.0 + bc.RadialK1*r2 + bc.RadialK2*r4 + bc.RadialK3*r6
	xd := x*radDist + 2.0*bc.TangentialP1*x*y + bc.TangentialP2*(r2+2.0*x*x)
	yd := y*radDist + 2.0*bc.TangentialP2*x*y + bc.TangentialP1*(r2+2.0*y*y)
	return xd, yd
}

// Undistort inverts Transform, computing the undistorted coordinates that
// would produce the given distorted ones. It uses an iterative Newton-Raphson
// method starting from the distorted point; the Jacobian of the forward model
// is solved analytically each step. A nil model is the identity.
func (bc *BrownConrady) Undistort(xd, yd float64) (float64, float64) {
	if bc == nil {
		return xd, yd
	}

	// Start with the distorted point as initial guess
	xu, yu := xd, yd

	const maxIterations = 20
	const tolerance = 1e-10

	for i := 0; i < maxIterations; i++ {
		r2 := xu*xu + yu*yu
		r4 := r2 * r2
		r6 := r4 * r2

		// Forward distortion at the current estimate
		radDist := 1.0 + bc.RadialK1*r2 + bc.RadialK2*r4 + bc.RadialK3*r6
		tanDistX := 2.0*bc.TangentialP1*xu*yu + bc.TangentialP2*(r2+2.0*xu*xu)
		tanDistY := 2.0*bc.TangentialP2*xu*yu + bc.TangentialP1*(r2+2.0*yu*yu)

		xdEst := xu*radDist + tanDistX
		ydEst := yu*radDist + tanDistY

		errX := xdEst - xd
		errY := ydEst - yd

		if errX*errX+errY*errY < tolerance*tolerance {
			break
		}

		// Jacobian of the forward distortion function
		// J = [[dxd/dxu, dxd/dyu], [dyd/dxu, dyd/dyu]]
		dRadDistDxu := 2.0 * xu * (bc.RadialK1 + 2.0*bc.RadialK2*r2 + 3.0*bc.RadialK3*r4)
		dRadDistDyu := 2.0 * yu * (bc.RadialK1 + 2.0*bc.RadialK2*r2 + 3.0*bc.RadialK3*r4)

		dxdDxu := radDist + xu*dRadDistDxu + 2.0*bc.TangentialP1*yu + bc.TangentialP2*(2.0*xu+4.0*xu)
		dxdDyu := xu*dRadDistDyu + 2.0*bc.TangentialP1*xu + bc.TangentialP2*2.0*yu
		dydDxu := yu*dRadDistDxu + 2.0*bc.TangentialP2*yu + bc.TangentialP1*2.0*xu
		dydDyu := radDist + yu*dRadDistDyu + 2.0*bc.TangentialP2*xu + bc.TangentialP1*(2.0*yu+4.0*yu)

		det := dxdDxu*dydDyu - dxdDyu*dydDxu
		if det == 0 {
			break
		}

		// Update: [xu, yu] -= J^-1 * [errX, errY]
		xu -= (dydDyu*errX - dxdDyu*errY) / det
		yu -= (-dydDxu*errX + dxdDxu*errY) / det
	}

	return xu, yu
}
