package service

import "bandmate/internal/models"

// submitDecision evaluates the full invitation history between a
// requester and a target and decides whether a new invitation may be
// submitted. A nil result means go ahead.
//
// The rules, checked in priority order:
//
//  1. Any accepted invitation, either direction: the pair is already
//     connected.
//  2. A pending invitation from the requester: duplicate. The error says
//     whether it targets the same opportunity.
//  3. A pending invitation from the target: the requester should answer
//     that one instead of sending a new one.
//  4. Declined history blocks the requester from retrying. A declined
//     direct request blocks everything: once the target turned the
//     requester down outright, no further request of any scope goes
//     through. A declined opportunity-scoped request blocks only retries
//     for that same opportunity. Declines the requester issued never
//     block, so the target may still invite back later.
func submitDecision(history []models.Invitation, requesterID uint, opportunityID *uint) *models.AppError {
	for _, inv := range history {
		if inv.Status == models.InvitationStatusAccepted {
			return models.NewAlreadyConnectedError()
		}
	}

	for _, inv := range history {
		if inv.Status != models.InvitationStatusPending {
			continue
		}
		if inv.FromUserID == requesterID {
			return models.NewDuplicatePendingError(sameScope(&inv, opportunityID))
		}
		return models.NewPendingFromOtherError()
	}

	for _, inv := range history {
		if inv.Status != models.InvitationStatusDeclined || inv.FromUserID != requesterID {
			continue
		}
		if opportunityID != nil {
			if inv.ScopedTo(*opportunityID) {
				return models.NewRetryBlockedScopedError()
			}
			if inv.OpportunityID == nil {
				return models.NewRetryBlockedGlobalError()
			}
			continue
		}
		return models.NewRetryBlockedGlobalError()
	}

	return nil
}

func sameScope(inv *models.Invitation, opportunityID *uint) bool {
	if opportunityID == nil {
		return inv.OpportunityID == nil
	}
	return inv.ScopedTo(*opportunityID)
}
