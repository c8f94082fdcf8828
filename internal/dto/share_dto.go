package dto

// ShareTokenResponse carries a freshly issued share token
type ShareTokenResponse struct {
	ShareToken string `json:"shareToken"`
}

// JoinBoardRequest redeems a share token for collaborator access
type JoinBoardRequest struct {
	ShareToken string `json:"shareToken" binding:"required"`
}
