// Draft form types. Drafts hold in-progress, not yet submitted entity forms.
package types

// FormType names one logical entity form. Each form type owns exactly one
// draft slot.
type FormType string

// Known form types.
const (
	FormPurchase    FormType = "purchase"
	FormSale        FormType = "sale"
	FormBuyer       FormType = "buyer"
	FormSeller      FormType = "seller"
	FormSubContract FormType = "subContract"
)

var knownFormTypes = []FormType{FormPurchase, FormSale, FormBuyer, FormSeller, FormSubContract}

// FormTypes returns the known form types.
func FormTypes() []FormType {
	return append([]FormType(nil), knownFormTypes...)
}

// Valid reports whether f is a known form type.
func (f FormType) Valid() bool {
	for _, known := range knownFormTypes {
		if f == known {
			return true
		}
	}
	return false
}
