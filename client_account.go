package goRate

import (
	"context"
	"fmt"

	"github.com/MrEthical07/goRate/api"
)

// ChangePassword describes the changepassword operation and its observable behavior.
//
// ChangePassword checks the local policy first: confirm must equal newPassword
// and newPassword must be long enough. Only then is the server asked, which
// verifies oldPassword. The session stays signed in.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword, confirm string) error {
	id, err := c.require()
	if err != nil {
		return err
	}

	if err := c.policy.ValidateChange(oldPassword, newPassword, confirm); err != nil {
		c.metricInc(MetricPasswordPolicyRejected)
		err = fmt.Errorf("%w: %w", ErrPasswordPolicy, err)
		c.emitAudit(ctx, AuditPasswordChanged, false, &id, err, nil)
		return err
	}

	err = c.api.ChangePassword(ctx, api.PasswordChange{
		OldPassword: oldPassword,
		NewPassword: newPassword,
	})
	if err != nil {
		err = sessionErr(err, true)
		c.metricInc(MetricPasswordChangeFailure)
		c.emitAudit(ctx, AuditPasswordChanged, false, &id, err, nil)
		return err
	}

	c.metricInc(MetricPasswordChangeSuccess)
	c.emitAudit(ctx, AuditPasswordChanged, true, &id, nil, nil)
	c.logger.Info("password changed", "user_id", id.UserID)
	return nil
}
