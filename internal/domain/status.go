package domain

// BatchStatus is the outcome of one product in a batch run
type BatchStatus string

const (
	BatchGenerated BatchStatus = "generated"
	BatchSkipped   BatchStatus = "skipped" // not enough sales history
	BatchFailed    BatchStatus = "failed"
)

// Tally counts items by status into the result totals
func (r *BatchResult) Tally() {
	r.Generated, r.Skipped, r.Failed = 0, 0, 0
	for _, item := range r.Items {
		switch item.Status {
		case BatchGenerated:
			r.Generated++
		case BatchSkipped:
			r.Skipped++
		case BatchFailed:
			r.Failed++
		}
	}
}
