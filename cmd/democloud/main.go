// Package main runs the colored point cloud pipeline against
// synthetic pose, depth, and color sources and logs per-frame stats.
// Useful for eyeballing throttle and occlusion behavior without
// device hardware.
package main

import (
	"image/color"
	"math"
	"os"
	"time"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/urfave/cli/v2"
	"go.viam.com/utils"
	"gonum.org/v1/gonum/num/quat"

	"github.com/WOSOMTECH/TangoColoredPointCloud/calib"
	"github.com/WOSOMTECH/TangoColoredPointCloud/cloudbuilder"
	"github.com/WOSOMTECH/TangoColoredPointCloud/rimage"
)

var logger = golog.NewDevelopmentLogger("democloud")

func main() {
	app := &cli.App{
		Name:  "democloud",
		Usage: "drive the colored point cloud pipeline with synthetic sensor data",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "frames", Value: 30, Usage: "number of synthetic depth frames to feed"},
			&cli.IntFlag{Name: "points", Value: 4096, Usage: "points per synthetic depth frame"},
			&cli.IntFlag{Name: "divisor", Value: 1, Usage: "depth frame rate divisor"},
			&cli.Float64Flag{Name: "point-size", Value: cloudbuilder.DefaultPointSize, Usage: "render point size"},
			&cli.BoolFlag{Name: "occlusion", Usage: "enable occlusion mode"},
		},
		Action: runDemo,
	}
	if err := app.Run(os.Args); err != nil {
		logger.Fatal(err)
	}
}

// orbitTracker simulates a device slowly orbiting the origin with
// identity sensor extrinsics.
type orbitTracker struct{}

func (orbitTracker) PoseAtTime(ts float64, base, target calib.ReferenceFrame) (calib.Pose, error) {
	p := calib.Pose{Timestamp: ts, Orientation: quat.Number{Real: 1}, Valid: true}
	if base == calib.FrameStartOfService && target == calib.FrameDevice {
		p.Translation = r3.Vector{X: math.Cos(ts / 3), Y: math.Sin(ts / 3), Z: 0}
	}
	return p, nil
}

func (orbitTracker) Intrinsics(camera calib.ReferenceFrame) (calib.CameraIntrinsics, error) {
	return calib.CameraIntrinsics{Fx: 500, Fy: 500, Ppx: 320, Ppy: 240}, nil
}

// gradientRenderer hands out a fixed horizontal gradient as the
// captured color frame.
type gradientRenderer struct {
	img *rimage.ColorImage
}

func newGradientRenderer(width, height int) *gradientRenderer {
	img := rimage.NewColorImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetXY(x, y, color.NRGBA{R: uint8(255 * x / width), G: uint8(255 * y / height), B: 128, A: 255})
		}
	}
	return &gradientRenderer{img: img}
}

func (g *gradientRenderer) CaptureCurrentFrame() *rimage.ColorImage {
	return g.img
}

func runDemo(c *cli.Context) error {
	tracker := orbitTracker{}
	cal, err := calib.Resolve(tracker, tracker, logger)
	if err != nil {
		return err
	}

	conf := cloudbuilder.Config{
		DepthFrameRateDivisor: c.Int("divisor"),
		PointSize:             c.Float64("point-size"),
		EnableOcclusion:       c.Bool("occlusion"),
	}
	builder, err := cloudbuilder.NewBuilder(conf, cal, tracker, newGradientRenderer(640, 480), logger)
	if err != nil {
		return err
	}

	ctx := c.Context
	numPoints := c.Int("points")
	processed := 0
	for i := 0; i < c.Int("frames"); i++ {
		ts := float64(i) / 30
		outcome := builder.ProcessDepthFrame(syntheticFrame(ts, numPoints))
		if outcome == cloudbuilder.FrameProcessed {
			processed++
			logger.Infow("frame processed",
				"index", i, "points", builder.Cloud().Size(), "outcome", outcome.String())
		}
		if !utils.SelectContextOrWait(ctx, 33*time.Millisecond) {
			return ctx.Err()
		}
	}

	rs := builder.RenderSettings()
	logger.Infow("demo complete",
		"processed", processed,
		"cloud_points", builder.Cloud().Size(),
		"indices", len(builder.Cloud().Indices()),
		"point_size", rs.PointSize,
		"render_queue_offset", rs.RenderQueueOffset,
	)
	return nil
}

// syntheticFrame sweeps a wavy sheet of points through the depth
// camera frustum.
func syntheticFrame(ts float64, n int) cloudbuilder.DepthFrame {
	pts := make([]r3.Vector, n)
	side := int(math.Sqrt(float64(n)))
	if side < 1 {
		side = 1
	}
	for i := range pts {
		u := float64(i%side)/float64(side) - 0.5
		v := float64(i/side)/float64(side) - 0.5
		pts[i] = r3.Vector{
			X: u,
			Y: v,
			Z: 1.5 + 0.2*math.Sin(2*math.Pi*u+ts),
		}
	}
	return cloudbuilder.DepthFrame{Timestamp: ts, Count: n, Points: pts}
}
