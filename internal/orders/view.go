package orders

import (
	"github.com/simkemas/simkemas-backend/pkg/db/models"
)

// BuildView renders o and reports whether the stored payment_status disagreed
// with the one derived from the amounts.
func BuildView(o models.Order) (OrderView, bool) {
	status := DerivePaymentStatus(o.PaymentStatus, o.PaidAmount, o.TotalAmount, o.FinalAdjustment)
	view := OrderView{
		ID:               o.ID,
		Code:             o.Code,
		CustomerID:       o.CustomerID,
		TotalAmount:      o.TotalAmount,
		Discount:         o.Discount,
		FinalAdjustment:  o.FinalAdjustment,
		PaidAmount:       o.PaidAmount,
		RemainingAmount:  Remaining(o.TotalAmount, o.FinalAdjustment, o.PaidAmount),
		PaymentOption:    o.PaymentOption,
		PaymentStatus:    status,
		ProductionStatus: o.ProductionStatus,
		Deadline:         o.Deadline,
		ActualQuantity:   o.ActualQuantity,
		DesignerID:       o.DesignerID,
		OperatorID:       o.OperatorID,
		CreatedBy:        o.CreatedBy,
		Note:             o.Note,
		PickedUpAt:       o.PickedUpAt,
		Version:          o.Version,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
		Items:            make([]ItemView, 0, len(o.Items)),
	}
	if c := o.Customer; c != nil {
		view.Customer = &CustomerView{
			ID:      c.ID,
			Code:    c.Code,
			Name:    c.Name,
			Phone:   c.Phone,
			Email:   c.Email,
			Address: c.Address,
		}
	}
	for _, item := range o.Items {
		iv := ItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			Variant:   item.Variant,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Subtotal:  item.Subtotal,
			Note:      item.Note,
			HasDesign: item.HasDesign,
		}
		if p := item.Product; p != nil {
			iv.ProductName = p.Name
			iv.Brand = p.Brand
			iv.PackagingType = p.PackagingType
			iv.PackagingSize = p.PackagingSize
			iv.Netto = p.Netto
			iv.PIRT = p.PIRT
			iv.Halal = p.Halal
			iv.NIB = p.NIB
		}
		view.Items = append(view.Items, iv)
	}
	return view, status != o.PaymentStatus
}
