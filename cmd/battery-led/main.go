// Command battery-led monitors a battery voltage through an I2C ADC and
// drives a tri-color indicator LED through GPIO.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	arg "github.com/alexflint/go-arg"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/sweeney/battery-led/internal/adc"
	"github.com/sweeney/battery-led/internal/led"
	"github.com/sweeney/battery-led/internal/logic"
	"github.com/sweeney/battery-led/internal/status"
)

var (
	version = "<not set>"
	log     = logrus.New()
)

type Args struct {
	I2CBus     string        `arg:"--i2c-bus" help:"I2C bus name (empty for the first available)"`
	ADCAddress uint16        `arg:"--adc-address" help:"I2C address of the ADC"`
	PinRed     int           `arg:"--pin-red" help:"BCM pin number for the red line"`
	PinYellow  int           `arg:"--pin-yellow" help:"BCM pin number for the yellow line"`
	PinGreen   int           `arg:"--pin-green" help:"BCM pin number for the green line"`
	Sample     time.Duration `arg:"--sample" help:"interval between state machine steps"`
	Heartbeat  time.Duration `arg:"--heartbeat" help:"status log interval (0 to disable)"`
	PrintState bool          `arg:"--print-state" help:"sample once, print the level, and exit"`
	Debug      bool          `arg:"--debug" help:"verbose logging"`
}

func (Args) Version() string {
	return version
}

func procArgs() Args {
	args := Args{
		ADCAddress: adc.DefaultAddr,
		PinRed:     led.DefaultPinRed,
		PinYellow:  led.DefaultPinYellow,
		PinGreen:   led.DefaultPinGreen,
		Sample:     100 * time.Millisecond,
		Heartbeat:  15 * time.Minute,
	}
	arg.MustParse(&args)
	return args
}

func main() {
	args := procArgs()
	if args.Debug {
		log.SetLevel(logrus.DebugLevel)
	}
	if err := run(args); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(args Args) error {
	cfg := logic.DefaultConfig()

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("init periph host: %w", err)
	}
	bus, err := i2creg.Open(args.I2CBus)
	if err != nil {
		return fmt.Errorf("open i2c bus: %w", err)
	}
	defer bus.Close()

	reader, err := adc.NewRealReader(bus, args.ADCAddress)
	if err != nil {
		return fmt.Errorf("init adc: %w", err)
	}
	defer reader.Close()
	sampler := adc.NewSampler(reader)

	// Print state mode
	if args.PrintState {
		v := sampler.Sample()
		level := cfg.Thresholds.Classify(logic.LevelHigh, v)
		fmt.Printf("voltage: %.2fV, level: %s (%s)\n", v, level, led.Color(level))
		return nil
	}

	driver, err := led.NewRealDriver(args.PinRed, args.PinYellow, args.PinGreen)
	if err != nil {
		return fmt.Errorf("init led driver: %w", err)
	}
	defer driver.Close()

	monitor := logic.NewMonitor(cfg)

	tracker := status.NewTracker(time.Now(), status.Config{
		SampleMs:        args.Sample.Milliseconds(),
		TickUs:          cfg.TickPeriod.Microseconds(),
		ShortDebounceMs: cfg.ShortDebounce.Milliseconds(),
		LongDebounceMs:  cfg.LongDebounce.Milliseconds(),
		HeartbeatMs:     args.Heartbeat.Milliseconds(),
		I2CBus:          args.I2CBus,
		ADCAddr:         args.ADCAddress,
		PinRed:          args.PinRed,
		PinYellow:       args.PinYellow,
		PinGreen:        args.PinGreen,
	})

	// Debounce tick source. The monitor shares only the atomic countdown
	// with this goroutine, so a tick landing during shutdown is harmless.
	tickStop := make(chan struct{})
	defer close(tickStop)
	go runTicker(monitor.Timer(), cfg.TickPeriod, tickStop)

	log.Infof("running version: %s", version)
	log.Infof("started: sample=%v tick=%v short=%v long=%v heartbeat=%v",
		args.Sample, cfg.TickPeriod, cfg.ShortDebounce, cfg.LongDebounce, args.Heartbeat)

	sampleTicker := time.NewTicker(args.Sample)
	defer sampleTicker.Stop()

	var heartbeat <-chan time.Time
	if args.Heartbeat > 0 {
		hb := time.NewTicker(args.Heartbeat)
		defer hb.Stop()
		heartbeat = hb.C
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(sampler, driver, tracker, monitor, sampleTicker.C, heartbeat, sigCh)
}

// runTicker decrements the debounce countdown once per hardware tick period.
func runTicker(timer *logic.DebounceTimer, period time.Duration, stop <-chan struct{}) {
	t := time.NewTicker(period)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			timer.Tick()
		}
	}
}

// runLoop steps the state machine on every sample tick and applies committed
// level changes to the indicator. Extracted from run so tests can drive it
// with fakes and hand-rolled channels.
func runLoop(sampler logic.Sampler, driver led.Driver, tracker *status.Tracker, monitor *logic.Monitor, tick <-chan time.Time, heartbeat <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Infof("received %v, shutting down", s)
			return nil

		case <-heartbeat:
			snap := tracker.Snapshot()
			log.WithFields(logrus.Fields{
				"level":     snap.Level.String(),
				"voltage":   fmt.Sprintf("%.2f", snap.Voltage),
				"machine":   snap.Machine.String(),
				"ready":     snap.Ready,
				"uptime":    snap.Uptime().Truncate(time.Second).String(),
				"to_low":    snap.Counts.ToLow,
				"to_medium": snap.Counts.ToMedium,
				"to_high":   snap.Counts.ToHigh,
				"discarded": snap.Counts.Discarded,
			}).Info("heartbeat")

		case <-tick:
			commit := monitor.Step(sampler)
			if commit != nil && commit.Changed {
				log.Infof("battery %s (%.2fV), indicator %s", commit.Level, commit.Voltage, led.Color(commit.Level))
				if err := driver.Set(commit.Level); err != nil {
					// Keep running; the indicator may be stale but
					// the machine stays consistent.
					log.Errorf("set indicator: %v", err)
				}
			}
			tracker.Update(monitor.Level(), monitor.Voltage(), monitor.Machine(), monitor.Ready(), monitor.Counts())
		}
	}
}
