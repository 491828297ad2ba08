package model

// ZonePayload is the body accepted by zone create and update.
type ZonePayload struct {
	Name        Value `json:"name" form:"name"`
	Description Value `json:"description" form:"description"`
}

type CreateZoneRequest struct {
	ZonePayload
}

func (r *CreateZoneRequest) Validate() error {
	return nil
}

type UpdateZoneRequest struct {
	ResourceID
	ZonePayload
}

func (r *UpdateZoneRequest) Validate() error {
	return r.ResourceID.Validate()
}
