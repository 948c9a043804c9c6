package correspondence_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/correspondence-management/internal/correspondence"
)

var _ = Describe("BuildClauses", func() {
	It("returns nothing for an empty filter", func() {
		Expect(correspondence.BuildClauses(correspondence.ListFilter{})).To(BeEmpty())
	})

	It("produces one fragment per set field", func() {
		sender := int64(3)
		start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		clauses := correspondence.BuildClauses(correspondence.ListFilter{
			Type:           correspondence.TypeIncoming,
			CurrentStatus:  correspondence.StatusSent,
			SenderEntityID: &sender,
			StartDate:      &start,
		})

		Expect(clauses).To(HaveLen(4))
		exprs := make([]string, len(clauses))
		for i, c := range clauses {
			exprs[i] = c.Expr
		}
		Expect(exprs).To(ContainElements(
			"type = ?",
			"current_status = ?",
			"sender_entity_id = ?",
			"correspondence_date >= ?",
		))
	})

	It("binds the search pattern across subject, description and reference number", func() {
		clauses := correspondence.BuildClauses(correspondence.ListFilter{Search: "budget"})

		Expect(clauses).To(HaveLen(1))
		Expect(clauses[0].Expr).To(Equal("(LOWER(subject) LIKE ? OR LOWER(description) LIKE ? OR LOWER(reference_number) LIKE ?)"))
		Expect(clauses[0].Args).To(HaveLen(3))
		for _, arg := range clauses[0].Args {
			Expect(arg).To(Equal("%budget%"))
		}
	})

	It("lowercases the search term so matches ignore case", func() {
		clauses := correspondence.BuildClauses(correspondence.ListFilter{Search: "BuDGet"})

		Expect(clauses).To(HaveLen(1))
		for _, arg := range clauses[0].Args {
			Expect(arg).To(Equal("%budget%"))
		}
	})

	It("keeps date bounds independent", func() {
		end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
		clauses := correspondence.BuildClauses(correspondence.ListFilter{EndDate: &end})

		Expect(clauses).To(HaveLen(1))
		Expect(clauses[0].Expr).To(Equal("correspondence_date <= ?"))
		Expect(clauses[0].Args[0]).To(Equal(end))
	})
})

var _ = Describe("GenerateReferenceNumber", func() {
	It("uses W for incoming and S for outgoing", func() {
		year := time.Now().Format("2006")
		Expect(correspondence.GenerateReferenceNumber(correspondence.TypeIncoming)).To(MatchRegexp(`^W` + year + `\d{4}$`))
		Expect(correspondence.GenerateReferenceNumber(correspondence.TypeOutgoing)).To(MatchRegexp(`^S` + year + `\d{4}$`))
	})

	It("always emits a four digit suffix", func() {
		for i := 0; i < 100; i++ {
			ref := correspondence.GenerateReferenceNumber(correspondence.TypeIncoming)
			Expect(ref).To(HaveLen(1 + 4 + 4))
		}
	})
})
