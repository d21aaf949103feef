package sonarsim

import (
	"github.com/PH-19/sonarscan-sim/internal/simmath"
	"gonum.org/v1/gonum/mat"
)

// KalmanFilter is a 2-D constant-velocity Kalman filter over state
// [x, y, vx, vy], per spec §4.9.
type KalmanFilter struct {
	x *mat.VecDense
	p *mat.Dense
}

// NewKalmanFilter initialises a filter at (x0, y0) with zero velocity and a
// fixed diagonal covariance: KalmanInitialPosVarM2 on position and
// KalmanInitialVelVarM2S2 on velocity. The first measurement's sigma is not
// used to size it.
func NewKalmanFilter(x0, y0 float64) *KalmanFilter {
	x := mat.NewVecDense(4, []float64{x0, y0, 0, 0})
	p := mat.NewDense(4, 4, nil)
	p.Set(0, 0, KalmanInitialPosVarM2)
	p.Set(1, 1, KalmanInitialPosVarM2)
	p.Set(2, 2, KalmanInitialVelVarM2S2)
	p.Set(3, 3, KalmanInitialVelVarM2S2)
	return &KalmanFilter{x: x, p: p}
}

// Predict advances the filter dt seconds using the constant-velocity motion
// model and a process noise matrix derived from KALMAN_ACCEL_STD_DEV_MPS2,
// per spec §4.9's discretized white-noise-acceleration model. dt <= 0 is a
// no-op: the state and covariance are left untouched.
func (kf *KalmanFilter) Predict(dt float64) {
	if dt <= 0 {
		return
	}

	f := mat.NewDense(4, 4, []float64{
		1, 0, dt, 0,
		0, 1, 0, dt,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})

	q := KalmanAccelStdDevMPS2 * KalmanAccelStdDevMPS2
	dt2, dt3, dt4 := dt*dt, dt*dt*dt, dt*dt*dt*dt
	qProc := mat.NewDense(4, 4, []float64{
		dt4 / 4 * q, 0, dt3 / 2 * q, 0,
		0, dt4 / 4 * q, 0, dt3 / 2 * q,
		dt3 / 2 * q, 0, dt2 * q, 0,
		0, dt3 / 2 * q, 0, dt2 * q,
	})

	var xNext mat.VecDense
	xNext.MulVec(f, kf.x)
	kf.x = &xNext

	var fp, pNext mat.Dense
	fp.Mul(f, kf.p)
	pNext.Mul(&fp, f.T())
	pNext.Add(&pNext, qProc)
	kf.p = &pNext
}

// Update folds a 2-D position measurement with the given sigma (assumed
// isotropic) into the filter. Per spec §4.9, if the innovation covariance is
// singular the update is silently skipped and the predicted state stands.
func (kf *KalmanFilter) Update(measX, measY, measSigma float64) {
	h := mat.NewDense(2, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
	})
	r := mat.NewDense(2, 2, []float64{
		measSigma * measSigma, 0,
		0, measSigma * measSigma,
	})
	z := mat.NewVecDense(2, []float64{measX, measY})

	var hx mat.VecDense
	hx.MulVec(h, kf.x)
	var y mat.VecDense
	y.SubVec(z, &hx)

	var hp, s mat.Dense
	hp.Mul(h, kf.p)
	s.Mul(&hp, h.T())
	s.Add(&s, r)

	var sInv mat.Dense
	if err := sInv.Inverse(&s); err != nil {
		return
	}

	var pht, k mat.Dense
	pht.Mul(kf.p, h.T())
	k.Mul(&pht, &sInv)

	var ky mat.VecDense
	ky.MulVec(&k, &y)
	var xNext mat.VecDense
	xNext.AddVec(kf.x, &ky)
	kf.x = &xNext

	ident := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		ident.Set(i, i, 1)
	}
	var kh, imkh, pNext mat.Dense
	kh.Mul(&k, h)
	imkh.Sub(ident, &kh)
	pNext.Mul(&imkh, kf.p)
	kf.p = &pNext
}

// Position returns the filter's current position estimate.
func (kf *KalmanFilter) Position() simmath.Vector2 {
	return simmath.Vector2{X: kf.x.AtVec(0), Y: kf.x.AtVec(1)}
}

// Velocity returns the filter's current velocity estimate.
func (kf *KalmanFilter) Velocity() simmath.Vector2 {
	return simmath.Vector2{X: kf.x.AtVec(2), Y: kf.x.AtVec(3)}
}
