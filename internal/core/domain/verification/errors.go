package verification

import "errors"

var ErrVerificationDoesNotExist = errors.New("verification does not exist")
