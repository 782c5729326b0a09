//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/dazzletools/wingather/internal/domain"
	"github.com/dazzletools/wingather/internal/infra"
	"github.com/dazzletools/wingather/internal/trust"
	"github.com/dazzletools/wingather/internal/usecase"
)

// fakeDesktop simulates a desktop session: it implements the
// enumerator and actuator over a mutable window list so a gather pass
// followed by an undo pass observes its own effects.
type fakeDesktop struct {
	windows  map[domain.Handle]*domain.WindowRecord
	order    []domain.Handle
	monitors []domain.Rect
	work     domain.Rect
}

func newFakeDesktop() *fakeDesktop {
	return &fakeDesktop{
		windows:  make(map[domain.Handle]*domain.WindowRecord),
		monitors: []domain.Rect{{X: 0, Y: 0, Width: 1920, Height: 1080}},
		work:     domain.Rect{X: 0, Y: 0, Width: 1920, Height: 1040},
	}
}

func (d *fakeDesktop) add(w domain.WindowRecord) {
	rec := w
	d.windows[w.Handle] = &rec
	d.order = append(d.order, w.Handle)
}

func (d *fakeDesktop) Setup() error     { return nil }
func (d *fakeDesktop) IsElevated() bool { return true }

func (d *fakeDesktop) Monitors() ([]domain.Rect, error) { return d.monitors, nil }

func (d *fakeDesktop) WorkArea(int) (domain.Rect, error)     { return d.work, nil }
func (d *fakeDesktop) PrimaryWorkArea() (domain.Rect, error) { return d.work, nil }

func (d *fakeDesktop) EnumerateWindows(_ context.Context, includeHidden bool) ([]domain.WindowRecord, error) {
	var out []domain.WindowRecord
	for _, h := range d.order {
		w := d.windows[h]
		if !includeHidden && !w.Style.Has(domain.StyleVisible) {
			continue
		}
		out = append(out, *w)
	}
	return out, nil
}

func (d *fakeDesktop) get(h domain.Handle) (*domain.WindowRecord, error) {
	w, ok := d.windows[h]
	if !ok {
		return nil, fmt.Errorf("no window %#x", uint64(h))
	}
	return w, nil
}

func (d *fakeDesktop) Restore(h domain.Handle) error {
	w, err := d.get(h)
	if err != nil {
		return err
	}
	w.Style &^= domain.StyleMinimized | domain.StyleMaximized
	return nil
}

func (d *fakeDesktop) MoveResize(h domain.Handle, bounds domain.Rect) error {
	w, err := d.get(h)
	if err != nil {
		return err
	}
	w.Bounds = bounds
	return nil
}

func (d *fakeDesktop) Raise(h domain.Handle) error {
	_, err := d.get(h)
	return err
}

func (d *fakeDesktop) SetTopmost(h domain.Handle) error {
	_, err := d.get(h)
	return err
}

func (d *fakeDesktop) Show(h domain.Handle) error {
	w, err := d.get(h)
	if err != nil {
		return err
	}
	w.Style |= domain.StyleVisible
	return nil
}

func (d *fakeDesktop) Hide(h domain.Handle) error {
	w, err := d.get(h)
	if err != nil {
		return err
	}
	w.Style &^= domain.StyleVisible
	return nil
}

func (d *fakeDesktop) IsVisible(h domain.Handle) (bool, error) {
	w, err := d.get(h)
	if err != nil {
		return false, err
	}
	return w.Style.Has(domain.StyleVisible), nil
}

func (d *fakeDesktop) PullToCurrentDesktop(h domain.Handle) error {
	w, err := d.get(h)
	if err != nil {
		return err
	}
	w.OnCurrentDesktop = true
	w.Cloak = domain.CloakNone
	return nil
}

func (d *fakeDesktop) OwnerPID(h domain.Handle) (int, error) {
	w, err := d.get(h)
	if err != nil {
		return 0, err
	}
	return w.PID, nil
}

type staticResolver struct{}

func (staticResolver) Resolve(pid int) (domain.ProcessIdentity, error) {
	return domain.ProcessIdentity{}, fmt.Errorf("pid %d not pre-resolved", pid)
}

type fakeSignatures struct {
	signed map[string]bool // path -> OS vendor
}

func (f fakeSignatures) Verify(_ context.Context, path string) (domain.SignatureInfo, error) {
	vendor, ok := f.signed[path]
	if !ok {
		return domain.SignatureInfo{}, nil
	}
	return domain.SignatureInfo{Valid: true, OSVendor: vendor, Signer: "Test Vendor"}, nil
}

var _ = Describe("Gather Pipeline", func() {
	var (
		tmpDir   string
		desktop  *fakeDesktop
		store    *infra.FileUndoStore
		gatherer *usecase.Gatherer
	)

	visibleAt := func(h domain.Handle, pid int, name, title string, bounds domain.Rect) domain.WindowRecord {
		return domain.WindowRecord{
			Handle:           h,
			PID:              pid,
			ProcessName:      name,
			ExePath:          `C:\Apps\` + name,
			Title:            title,
			ClassName:        "AppWindow",
			Style:            domain.StyleVisible,
			Bounds:           bounds,
			OnCurrentDesktop: true,
		}
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "wingather-pipeline-*")
		Expect(err).NotTo(HaveOccurred())

		desktop = newFakeDesktop()
		store = infra.NewFileUndoStoreWithPath(filepath.Join(tmpDir, "last_shown.json"), "0.3.0-test")

		policy, err := trust.NewPolicy(nil, false)
		Expect(err).NotTo(HaveOccurred())
		verifier := trust.NewVerifier(policy,
			infra.NewCachedSignatureVerifier(fakeSignatures{signed: map[string]bool{
				`C:\Windows\explorer.exe`: true,
			}}), zap.NewNop())

		gatherer = usecase.NewGatherer(desktop, desktop, staticResolver{}, verifier, store, zap.NewNop())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("a live pass over a compromised desktop", func() {
		BeforeEach(func() {
			desktop.add(visibleAt(0x10, 100, "editor.exe", "notes",
				domain.Rect{X: 200, Y: 200, Width: 1000, Height: 700}))
			desktop.add(visibleAt(0x20, 200, "stealer.exe", "pay portal",
				domain.Rect{X: -12000, Y: -12000, Width: 900, Height: 700}))

			explorer := visibleAt(0x30, 300, "explorer.exe", "Program Manager",
				domain.Rect{X: -9000, Y: 0, Width: 800, Height: 600})
			explorer.ExePath = `C:\Windows\explorer.exe`
			desktop.add(explorer)

			phantom := visibleAt(0x40, 400, "phantom.exe", "confirm payment",
				domain.Rect{X: -5000, Y: -5000, Width: 500, Height: 300})
			phantom.Style = 0
			phantom.ClassName = "#32770"
			desktop.add(phantom)
		})

		It("should pull every hostile window back into the work area", func() {
			rep, err := gatherer.Run(context.Background(), domain.Options{ShowHidden: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(rep.Results).To(HaveLen(4))

			stealer, _ := desktop.get(0x20)
			Expect(stealer.Bounds.Intersects(desktop.work)).To(BeTrue())

			phantom, _ := desktop.get(0x40)
			Expect(phantom.Style.Has(domain.StyleVisible)).To(BeTrue())
			Expect(phantom.Bounds.Intersects(desktop.work)).To(BeTrue())
		})

		It("should order the report highest concern first", func() {
			rep, err := gatherer.Run(context.Background(), domain.Options{ShowHidden: true})
			Expect(err).NotTo(HaveOccurred())

			Expect(rep.Results[0].Suspicious()).To(BeTrue())
			for i := 1; i < len(rep.Results); i++ {
				if rep.Results[i].Suspicious() {
					Expect(rep.Results[i-1].Assessment.Level).
						To(BeNumerically("<=", rep.Results[i].Assessment.Level))
				}
			}
		})

		It("should rescue trusted windows without flagging them", func() {
			rep, err := gatherer.Run(context.Background(), domain.Options{})
			Expect(err).NotTo(HaveOccurred())

			var explorer *domain.Result
			for _, r := range rep.Results {
				if r.Window.ProcessName == "explorer.exe" {
					explorer = r
				}
			}
			Expect(explorer).NotTo(BeNil())
			Expect(explorer.Suppressed).To(BeTrue())
			Expect(explorer.Suspicious()).To(BeFalse())

			moved, _ := desktop.get(0x30)
			Expect(moved.Bounds.Intersects(desktop.work)).To(BeTrue())
		})

		It("should be undoable end to end", func() {
			_, err := gatherer.Run(context.Background(), domain.Options{ShowHidden: true})
			Expect(err).NotTo(HaveOccurred())

			phantom, _ := desktop.get(0x40)
			Expect(phantom.Style.Has(domain.StyleVisible)).To(BeTrue())

			res, err := usecase.NewUndoer(desktop, store, zap.NewNop()).Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Hidden).To(Equal(1))
			Expect(res.Skipped).To(BeZero())

			phantom, _ = desktop.get(0x40)
			Expect(phantom.Style.Has(domain.StyleVisible)).To(BeFalse())

			// State is cleared; a second undo has nothing to do.
			_, _, err = store.Load()
			Expect(err).To(MatchError(infra.ErrNoUndoState))
		})

		It("should leave the desktop untouched in dry-run mode", func() {
			before, _ := desktop.get(0x20)
			boundsBefore := before.Bounds

			rep, err := gatherer.Run(context.Background(), domain.Options{DryRun: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(rep.Mode).To(Equal(usecase.ModeDryRun))

			after, _ := desktop.get(0x20)
			Expect(after.Bounds).To(Equal(boundsBefore))
		})
	})
})
