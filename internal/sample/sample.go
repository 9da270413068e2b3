// Package sample holds example clauses for trying the analyzer.
package sample

import "fmt"

// Document is a titled example clause
type Document struct {
	Title string
	Text  string
}

var documents = []Document{
	{
		Title: "Employment Non-Compete",
		Text: "The Employee hereby agrees that, during the term of employment and for a period of twelve (12) months " +
			"following termination thereof, the Employee shall not, directly or indirectly, engage in any business " +
			"activity that competes with the Employer's business within a radius of fifty (50) miles from the " +
			"Employer's principal place of business. Notwithstanding the foregoing, this restriction shall not apply " +
			"to passive investments wherein the Employee holds less than five percent (5%) equity interest.",
	},
	{
		Title: "Service Agreement Payment",
		Text: "The Client shall pay the Service Provider the sum of Five Thousand Dollars ($5,000.00) pursuant to the " +
			"following schedule: (a) twenty-five percent (25%) upon execution of this Agreement; (b) fifty percent " +
			"(50%) upon completion of Phase One deliverables; and (c) the remaining twenty-five percent (25%) within " +
			"thirty (30) days of final delivery. In the event that payment is not received within fifteen (15) days " +
			"of the due date, the Service Provider may, at its sole discretion, suspend all work forthwith until such " +
			"payment is received.",
	},
	{
		Title: "Liability Limitation",
		Text: "In no event shall the Company be liable for any indirect, incidental, special, consequential, or " +
			"punitive damages, including but not limited to loss of profits, data, use, goodwill, or other " +
			"intangible losses, resulting from (i) your access to or use of or inability to access or use the " +
			"Service; (ii) any conduct or content of any third party on the Service; (iii) any content obtained " +
			"from the Service; and (iv) unauthorized access, use or alteration of your transmissions or content, " +
			"whether based on warranty, contract, tort (including negligence) or any other legal theory, whether " +
			"or not we have been informed of the possibility of such damage.",
	},
}

// Count returns the number of samples
func Count() int {
	return len(documents)
}

// All returns a copy of every sample
func All() []Document {
	out := make([]Document, len(documents))
	copy(out, documents)
	return out
}

// Get returns the sample at index (zero-based)
func Get(index int) (Document, error) {
	if index < 0 || index >= len(documents) {
		return Document{}, fmt.Errorf("sample index %d out of range [0, %d)", index, len(documents))
	}
	return documents[index], nil
}
