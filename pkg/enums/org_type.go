package enums

// OrgType classifies an organization in the traceability chain.
type OrgType string

const (
	OrgTypeManufacturer OrgType = "manufacturer"
	OrgTypeWarehouse    OrgType = "warehouse"
	OrgTypeDistributor  OrgType = "distributor"
	OrgTypeShop         OrgType = "shop"
)

// String implements fmt.Stringer.
func (o OrgType) String() string {
	return string(o)
}
