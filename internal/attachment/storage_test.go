package attachment_test

import (
	"bytes"
	"io"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/correspondence-management/internal/attachment"
)

var _ = Describe("NormalizeRelativePath", func() {
	DescribeTable("accepted paths",
		func(input, want string) {
			got, err := attachment.NormalizeRelativePath(input)
			Expect(err).ToNot(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("plain file", "incoming/a.pdf", "incoming/a.pdf"),
		Entry("redundant separators", "incoming//a.pdf", "incoming/a.pdf"),
		Entry("dot segment", "incoming/./a.pdf", "incoming/a.pdf"),
		Entry("leading slash stripped", "/incoming/a.pdf", "incoming/a.pdf"),
		Entry("backslashes normalized", `outgoing\a.pdf`, "outgoing/a.pdf"),
		Entry("internal parent resolved in place", "incoming/sub/../a.pdf", "incoming/a.pdf"),
	)

	DescribeTable("rejected paths",
		func(input string) {
			_, err := attachment.NormalizeRelativePath(input)
			Expect(err).To(HaveOccurred())
		},
		Entry("empty", ""),
		Entry("bare traversal", ".."),
		Entry("traversal prefix", "../etc/passwd"),
		Entry("traversal after cleaning", "incoming/../../etc/passwd"),
		Entry("windows drive", `C:\uploads\a.pdf`),
		Entry("dot only", "."),
	)

	It("round-trips its own output", func() {
		first, err := attachment.NormalizeRelativePath("incoming//./a.pdf")
		Expect(err).ToNot(HaveOccurred())
		second, err := attachment.NormalizeRelativePath(first)
		Expect(err).ToNot(HaveOccurred())
		Expect(second).To(Equal(first))
	})
})

var _ = Describe("GenerateFileName", func() {
	It("keeps the original extension lowercased", func() {
		name := attachment.GenerateFileName("تقرير.PDF")
		Expect(name).To(HaveSuffix(".pdf"))
		Expect(name).To(MatchRegexp(`^\d+-[0-9a-f-]{36}\.pdf$`))
	})

	It("handles names without an extension", func() {
		name := attachment.GenerateFileName("README")
		Expect(name).To(MatchRegexp(`^\d+-[0-9a-f-]{36}$`))
	})

	It("never reuses a name", func() {
		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			name := attachment.GenerateFileName("a.pdf")
			Expect(seen[name]).To(BeFalse())
			seen[name] = true
		}
	})
})

var _ = Describe("DiskStorage", func() {
	var storage *attachment.DiskStorage

	BeforeEach(func() {
		var err error
		storage, err = attachment.NewDiskStorage(GinkgoT().TempDir())
		Expect(err).ToNot(HaveOccurred())
	})

	It("writes, reads back and removes a file", func() {
		payload := []byte("hello attachment")
		written, err := storage.Save("incoming/a.txt", bytes.NewReader(payload))
		Expect(err).ToNot(HaveOccurred())
		Expect(written).To(Equal(int64(len(payload))))

		rc, err := storage.Open("incoming/a.txt")
		Expect(err).ToNot(HaveOccurred())
		defer rc.Close()
		got, err := io.ReadAll(rc)
		Expect(err).ToNot(HaveOccurred())
		Expect(got).To(Equal(payload))

		Expect(storage.Remove("incoming/a.txt")).To(Succeed())
		_, err = storage.Open("incoming/a.txt")
		Expect(err).To(HaveOccurred())
	})

	It("refuses to write outside its root", func() {
		_, err := storage.Save("../escape.txt", strings.NewReader("nope"))
		Expect(err).To(HaveOccurred())
	})

	It("refuses to read outside its root", func() {
		_, err := storage.Open("../../etc/passwd")
		Expect(err).To(HaveOccurred())
	})
})
