package domain

import "fmt"

type ItemKind string

const (
	ItemKindProduct  ItemKind = "product"
	ItemKindPackage  ItemKind = "package"
	ItemKindTraining ItemKind = "training"
)

// ItemRef points at exactly one catalog entity. The kind tag replaces the
// three optional foreign keys the storefront's data shapes would otherwise
// need, so "exactly one reference" holds by construction.
type ItemRef struct {
	Kind ItemKind
	ID   int
}

func ProductRef(id int) ItemRef {
	return ItemRef{Kind: ItemKindProduct, ID: id}
}

func PackageRef(id int) ItemRef {
	return ItemRef{Kind: ItemKindPackage, ID: id}
}

func TrainingRef(id int) ItemRef {
	return ItemRef{Kind: ItemKindTraining, ID: id}
}

func (r ItemRef) Validate() error {
	switch r.Kind {
	case ItemKindProduct, ItemKindPackage, ItemKindTraining:
	default:
		return fmt.Errorf("unknown item kind %q", r.Kind)
	}
	if r.ID <= 0 {
		return fmt.Errorf("item id must be a positive integer, got %d", r.ID)
	}
	return nil
}

func (r ItemRef) String() string {
	return fmt.Sprintf("%s:%d", r.Kind, r.ID)
}
