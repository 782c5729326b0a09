//go:build integration

package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dazzletools/wingather/internal/domain"
	"github.com/dazzletools/wingather/internal/infra"
)

var _ = Describe("Undo Store", func() {
	var (
		tmpDir    string
		statePath string
		store     *infra.FileUndoStore
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "wingather-integration-*")
		Expect(err).NotTo(HaveOccurred())

		statePath = filepath.Join(tmpDir, "last_shown.json")
		store = infra.NewFileUndoStoreWithPath(statePath, "0.3.0-test")
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("Save and Load", func() {
		Context("when saving revealed windows", func() {
			It("should round-trip entries through disk", func() {
				entries := []domain.UndoEntry{
					{Handle: 0x1234, PID: 42, ProcessName: "ghost.exe", Title: "ghost"},
					{Handle: 0x5678, PID: 43, ProcessName: "other.exe"},
				}
				Expect(store.Save(entries)).To(Succeed())

				loaded, savedAt, err := store.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(loaded).To(Equal(entries))
				Expect(savedAt).To(BeTemporally("~", time.Now(), time.Minute))
			})

			It("should write the versioned schema", func() {
				Expect(store.Save([]domain.UndoEntry{{Handle: 1, PID: 2}})).To(Succeed())

				raw, err := os.ReadFile(statePath)
				Expect(err).NotTo(HaveOccurred())

				var state map[string]any
				Expect(json.Unmarshal(raw, &state)).To(Succeed())
				Expect(state).To(HaveKey("version"))
				Expect(state).To(HaveKey("timestamp"))
				Expect(state).To(HaveKey("windows_shown"))
				Expect(state["app_version"]).To(Equal("0.3.0-test"))
			})

			It("should replace previous state atomically", func() {
				Expect(store.Save([]domain.UndoEntry{{Handle: 1, PID: 2}})).To(Succeed())
				Expect(store.Save([]domain.UndoEntry{{Handle: 9, PID: 8}})).To(Succeed())

				loaded, _, err := store.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(loaded).To(HaveLen(1))
				Expect(loaded[0].Handle).To(Equal(domain.Handle(9)))

				// No stray temp files left behind.
				names, err := filepath.Glob(filepath.Join(tmpDir, "*.tmp"))
				Expect(err).NotTo(HaveOccurred())
				Expect(names).To(BeEmpty())
			})
		})

		Context("when no state exists", func() {
			It("should report the missing-state error", func() {
				_, _, err := store.Load()
				Expect(err).To(MatchError(infra.ErrNoUndoState))
			})
		})
	})

	Describe("Clear", func() {
		It("should remove the state file", func() {
			Expect(store.Save([]domain.UndoEntry{{Handle: 1, PID: 2}})).To(Succeed())
			Expect(store.Clear()).To(Succeed())

			_, _, err := store.Load()
			Expect(err).To(MatchError(infra.ErrNoUndoState))
		})

		It("should tolerate an already-absent file", func() {
			Expect(store.Clear()).To(Succeed())
			Expect(store.Clear()).To(Succeed())
		})
	})
})
