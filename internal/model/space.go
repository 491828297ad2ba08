package model

// SpacePayload is the body accepted by space create and update.
type SpacePayload struct {
	ZoneID Value `json:"zone_id" form:"zone_id"`
	Number Value `json:"number" form:"number"`
	Status Value `json:"status" form:"status"`
}

type CreateSpaceRequest struct {
	SpacePayload
}

func (r *CreateSpaceRequest) Validate() error {
	return nil
}

type UpdateSpaceRequest struct {
	ResourceID
	SpacePayload
}

func (r *UpdateSpaceRequest) Validate() error {
	return r.ResourceID.Validate()
}
