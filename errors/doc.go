/*
Package errors provides semantic error types for the tablestore library.

The taxonomy separates "absent" from "failed":

	var (
	    ErrNotFound      = errors.New("record not found")       // expected, recoverable
	    ErrInvalidInput  = errors.New("invalid input")          // caller supplied an incomplete record
	    ErrConfiguration = errors.New("configuration error")    // fatal, never retried
	    ErrDataIntegrity = errors.New("data integrity error")   // fatal, surfaced
	    ErrStoreFault    = errors.New("store fault")            // opaque, caller-retriable
	)

Usage:

	rec, err := repo.GetOne(ctx, storagemodels.Key{PartitionKey: "m-1"})
	if err != nil {
	    if errors.IsNotFound(err) {
	        // treat as a creation trigger
	    }
	    return err
	}

StoreFault unwraps to the client error so callers can still inspect SDK
exception types or context cancellation with the standard errors.As/Is.
*/
package errors
