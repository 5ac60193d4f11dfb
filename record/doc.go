// Package record provides a recording implementation of the easel device
// interfaces for tests and headless inspection.
//
// A record.Device captures every device context call as a typed Op instead
// of rendering. Tests drive a Canvas against it and assert on the exact call
// sequence, the brush state at each draw, and the present traffic on the
// swap chain:
//
//	dev := record.NewDevice()
//	cv, _ := easel.New(256, 256,
//		easel.WithDevice(dev), easel.WithSynchronousPresent())
//	cv.AddDeferredRepaintAll()
//	if cv.StartFrame(1) {
//		cv.SetColor(easel.Red)
//		cv.FillRect(easel.Rect{W: 10, H: 10})
//		cv.FinishFrame()
//	}
//
//	ops := dev.Context().Ops()
//	// ops now holds Begin, SetTransform, FillRect, ... End.
//
// Every fallible call carries a Fail* field that injects an error into the
// next invocation, which is how device loss and resource failures are
// simulated.
package record
