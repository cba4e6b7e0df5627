package dto

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
)

// ErrBinding wraps bodies that do not decode into the expected shape.
var ErrBinding = errors.New("binding failed")

// BindExcludeIDs reads the random-quote body: a JSON array of integer quote
// ids, or null for none. Any integer is accepted; ids that match no quote
// exclude nothing. The router's body limit bounds the list length.
func BindExcludeIDs(c *gin.Context) ([]int64, error) {
	var ids []int64
	if err := c.ShouldBindJSON(&ids); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return ids, nil
}
