package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStore", func() {
	var store *LocalStore

	BeforeEach(func() {
		var err error
		store, err = NewLocalStore(filepath.Join(GinkgoT().TempDir(), "files"))
		Expect(err).NotTo(HaveOccurred())
	})

	It("saves under a generated id and resolves it back", func() {
		id, size, err := store.Save(context.Background(), "Report.PDF", strings.NewReader("hello"))
		Expect(err).NotTo(HaveOccurred())
		Expect(size).To(Equal(int64(5)))
		Expect(id).To(HaveSuffix(".pdf"))

		path, err := store.Path(id)
		Expect(err).NotTo(HaveOccurred())
		content, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(Equal("hello"))
	})

	It("rejects ids that escape the root", func() {
		_, err := store.Path("../etc/passwd")
		Expect(err).To(MatchError(ErrFileNotFound))
	})

	It("reports unknown ids", func() {
		_, err := store.Path("missing.txt")
		Expect(err).To(MatchError(ErrFileNotFound))
	})
})
