package vk

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	errs "vkscan/pkg/errors"
	"vkscan/pkg/logger"
	"vkscan/pkg/retry"
)

// IsNumericHandle reports whether handle is already a numeric VK id
func IsNumericHandle(handle string) bool {
	if handle == "" {
		return false
	}
	for i := 0; i < len(handle); i++ {
		if handle[i] < '0' || handle[i] > '9' {
			return false
		}
	}
	return true
}

// ResolveUserID turns a handle into a numeric VK user id. Numeric handles are
// parsed without a request. Otherwise users.get is polled at a fixed interval
// until a reply carries response[0].id; with the default configuration this
// never gives up. Valid JSON of the wrong shape counts as an incomplete reply.
// Transport, status and malformed JSON failures are returned immediately.
func (c *Client) ResolveUserID(ctx context.Context, handle string) (int64, error) {
	if IsNumericHandle(handle) {
		id, err := strconv.ParseInt(handle, 10, 64)
		if err != nil {
			return 0, errs.New(errs.ErrorTypeParsing, 0, "numeric handle %q out of range", handle)
		}
		return id, nil
	}

	cfg := &retry.Config{
		MaxAttempts: c.resolveMaxAttempts,
		Backoff:     &retry.ConstantBackoff{Delay: c.resolveDelay},
		RetryIf:     retry.RetryOnly(errs.ErrorTypeIncomplete),
		Sleep:       c.sleep,
		Context:     ctx,
		Logger:      c.logger.WithField("handle", handle),
	}

	return retry.DoWithResult(func() (int64, error) {
		return c.lookupUserID(ctx, handle)
	}, cfg)
}

// lookupUserID performs one users.get request
func (c *Client) lookupUserID(ctx context.Context, handle string) (int64, error) {
	var resp usersGetResponse
	if err := c.getJSON(ctx, c.usersGetURL(handle), &resp); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errs.Is(err, errs.ErrorTypeParsing) && errors.As(err, &typeErr) {
			return 0, errs.Wrap(errs.ErrorTypeIncomplete, 0, err, "users.get returned no id for %q: unexpected %s at %q", handle, typeErr.Value, typeErr.Field)
		}
		return 0, err
	}

	if resp.Error != nil {
		if resp.Error.Code == ErrCodeTooManyRequests {
			logger.LogRateLimit(UsersGetMethod, c.resolveDelay)
		}
		return 0, errs.New(errs.ErrorTypeIncomplete, resp.Error.Code, "users.get returned no id for %q: %s", handle, resp.Error.Message)
	}
	if len(resp.Response) == 0 || resp.Response[0].ID == 0 {
		return 0, errs.New(errs.ErrorTypeIncomplete, 0, "users.get returned no id for %q", handle)
	}

	return resp.Response[0].ID, nil
}
