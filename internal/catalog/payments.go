package catalog

import "sort"

// PaymentSummary groups the accepted payment methods and highlights interest-free plans.
type PaymentSummary struct {
	MercadoPago  []PaymentMethod      `json:"mercadopago"`
	CreditCards  []PaymentMethod      `json:"creditCards"`
	DebitCards   []PaymentMethod      `json:"debitCards"`
	Cash         []PaymentMethod      `json:"cash"`
	BankTransfer []PaymentMethod      `json:"bankTransfer"`
	BestPlan     *InstallmentPlan     `json:"bestInstallment,omitempty"`
	InterestFree []InterestFreeOption `json:"interestFreeInstallments"`
}

// InstallmentPlan is an installment offer with the method that provides it.
type InstallmentPlan struct {
	Quantity int     `json:"quantity"`
	Amount   float64 `json:"amount"`
	Method   string  `json:"method"`
}

// InterestFreeOption is an interest-free installment count and every method offering it.
type InterestFreeOption struct {
	Quantity int      `json:"quantity"`
	Amount   float64  `json:"amount"`
	Methods  []string `json:"methods"`
}

func SummarizePayments(methods []PaymentMethod) PaymentSummary {
	summary := PaymentSummary{
		MercadoPago:  []PaymentMethod{},
		CreditCards:  []PaymentMethod{},
		DebitCards:   []PaymentMethod{},
		Cash:         []PaymentMethod{},
		BankTransfer: []PaymentMethod{},
		InterestFree: []InterestFreeOption{},
	}

	byQuantity := map[int]*InterestFreeOption{}
	for _, method := range methods {
		switch method.Type {
		case PaymentTypeMercadoPago:
			summary.MercadoPago = append(summary.MercadoPago, method)
		case PaymentTypeCreditCard:
			summary.CreditCards = append(summary.CreditCards, method)
		case PaymentTypeDebitCard:
			summary.DebitCards = append(summary.DebitCards, method)
		case PaymentTypeCash:
			summary.Cash = append(summary.Cash, method)
		case PaymentTypeBankTransfer:
			summary.BankTransfer = append(summary.BankTransfer, method)
		}

		for _, installment := range method.Installments {
			if installment.Rate != 0 {
				continue
			}
			if summary.BestPlan == nil || installment.Quantity > summary.BestPlan.Quantity {
				summary.BestPlan = &InstallmentPlan{
					Quantity: installment.Quantity,
					Amount:   installment.Amount,
					Method:   method.Name,
				}
			}
			if existing, ok := byQuantity[installment.Quantity]; ok {
				existing.Methods = append(existing.Methods, method.Name)
				continue
			}
			byQuantity[installment.Quantity] = &InterestFreeOption{
				Quantity: installment.Quantity,
				Amount:   installment.Amount,
				Methods:  []string{method.Name},
			}
		}
	}

	for _, option := range byQuantity {
		summary.InterestFree = append(summary.InterestFree, *option)
	}
	sort.Slice(summary.InterestFree, func(i, j int) bool {
		return summary.InterestFree[i].Quantity < summary.InterestFree[j].Quantity
	})

	return summary
}
