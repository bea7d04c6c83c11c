package ctlmap

import (
	"fmt"
	"log"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/schollz/ctlmap/internal/control"
	"github.com/schollz/ctlmap/internal/feedbackview"
	"github.com/schollz/ctlmap/internal/mappingstore"
	"github.com/schollz/ctlmap/internal/midiio"
	"github.com/schollz/ctlmap/internal/mode"
)

var (
	watchInputPort   string
	watchOutputPort  string
	watchMappingPath string
	watchUI          bool
	watchPollEvery   time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Load a mapping file and route a live input port through it",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchInputPort, "in", "", "MIDI input port name (required)")
	watchCmd.Flags().StringVar(&watchOutputPort, "out", "", "MIDI output port name for feedback (optional)")
	watchCmd.Flags().StringVar(&watchMappingPath, "mapping", "", "path to a mapping file (required)")
	watchCmd.Flags().BoolVar(&watchUI, "ui", false, "show a live terminal meter instead of log lines")
	watchCmd.Flags().DurationVar(&watchPollEvery, "poll", 50*time.Millisecond, "cadence to poll after-min/turbo press-duration modes")
	watchCmd.MarkFlagRequired("in")
	watchCmd.MarkFlagRequired("mapping")
}

// memoryTarget is the mode.Target this standalone CLI hands every Binding:
// there is no real downstream application parameter to drive, so it just
// remembers the last value Mode produced for it.
type memoryTarget struct {
	mu          sync.Mutex
	value       control.AbsoluteValue
	has         bool
	controlType mode.ControlType
}

func (t *memoryTarget) CurrentValue() (control.AbsoluteValue, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value, t.has
}

func (t *memoryTarget) set(v control.AbsoluteValue) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.value = v
	t.has = true
}

func (t *memoryTarget) ControlType() mode.ControlType { return t.controlType }

// printApplier logs every value a binding hits and, when a UI program is
// attached, forwards it as a feedbackview.UpdateMsg.
type printApplier struct {
	name   string
	target *memoryTarget
	ui     *tea.Program
}

func (a *printApplier) Apply(cv control.ControlValue) error {
	var absolute control.AbsoluteValue
	if cv.Kind() == control.KindAbsoluteDiscrete {
		absolute = control.Discrete(cv.Fraction())
	} else {
		absolute = control.Continuous(cv.Unit())
	}
	a.target.set(absolute)

	if a.ui != nil {
		a.ui.Send(feedbackview.UpdateMsg{Meter: feedbackview.TargetMeter{
			Name:  a.name,
			Value: absolute.ToUnit().Get(),
		}})
		return nil
	}
	log.Printf("[%s] -> %.4f", a.name, absolute.ToUnit().Get())
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	set, err := mappingstore.Load(watchMappingPath)
	if err != nil {
		return fmt.Errorf("load mapping: %w", err)
	}

	var uiProgram *tea.Program
	if watchUI {
		uiProgram = tea.NewProgram(feedbackview.New())
	}

	router := midiio.NewRouter()
	var outPort *midiio.Port
	if watchOutputPort != "" {
		outPort, err = midiio.OpenOutput(watchOutputPort)
		if err != nil {
			return fmt.Errorf("open output: %w", err)
		}
	}

	for _, m := range set.Mappings {
		src, err := m.Source.Build()
		if err != nil {
			return fmt.Errorf("mapping %q: %w", m.Name, err)
		}
		modeCfg, err := m.Mode.Build()
		if err != nil {
			return fmt.Errorf("mapping %q: %w", m.Name, err)
		}
		controlType, err := m.Target.Build()
		if err != nil {
			return fmt.Errorf("mapping %q: %w", m.Name, err)
		}

		target := &memoryTarget{controlType: controlType}
		binding := &midiio.Binding{
			Name:    m.Name,
			Source:  src,
			Mode:    mode.New(modeCfg),
			Target:  target,
			Applier: &printApplier{name: m.Name, target: target, ui: uiProgram},
		}
		if outPort != nil {
			binding.FeedbackPort = outPort
			binding.FeedbackSource = src
		}
		router.Add(binding)
	}

	stop, err := midiio.Listen(watchInputPort, router.HandleRaw)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer stop()
	defer midiio.CloseAll()

	ticker := time.NewTicker(watchPollEvery)
	defer ticker.Stop()
	go func() {
		for now := range ticker.C {
			router.PollAll(now)
		}
	}()

	if uiProgram != nil {
		_, err := uiProgram.Run()
		return err
	}

	log.Printf("watching %q (%d mappings), ctrl-c to stop", watchInputPort, len(set.Mappings))
	select {}
}
