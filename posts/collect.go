package posts

import (
	"context"
	"errors"
)

// Collect loads the index of src and then every body. Posts whose body
// cannot be read are returned without content and listed in missing.
func Collect(ctx context.Context, src Source) (list []Post, missing []ID, err error) {
	list, err = src.LoadIndex(ctx)
	if err != nil {
		return nil, nil, err
	}
	for i := range list {
		body, err := src.LoadBody(ctx, list[i].ID)
		if err != nil {
			if !errors.Is(err, ErrBodyUnavailable) {
				return nil, nil, err
			}
			missing = append(missing, list[i].ID)
			continue
		}
		list[i].Content = &body
	}
	return list, missing, nil
}
