package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/artfolio/internal/models"
)

// parseListArgs accepts a bare page number and key=value filters, e.g.
// "photos 2 search=dunes tag=desert".
func parseListArgs(args []string) (models.ListParams, error) {
	var p models.ListParams
	for _, arg := range args {
		if n, err := strconv.Atoi(arg); err == nil {
			p.Page = n
			continue
		}

		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return p, fmt.Errorf("%w: unexpected argument %q (want page number or key=value)", errUsage, arg)
		}
		switch key {
		case "page":
			n, err := strconv.Atoi(value)
			if err != nil {
				return p, fmt.Errorf("%w: page must be a number", errUsage)
			}
			p.Page = n
		case "search":
			p.Search = value
		case "ordering":
			p.Ordering = value
		case "category":
			p.Category = value
		case "tag":
			p.Tag = value
		case "user":
			p.User = value
		default:
			return p, fmt.Errorf("%w: unknown filter %q", errUsage, key)
		}
	}
	return p, nil
}

func (a *App) Photos(ctx context.Context, args []string) error {
	p, err := parseListArgs(args)
	if err != nil {
		return err
	}
	page, err := a.gallery.Photos(ctx, p)
	if err != nil {
		return err
	}
	printPhotos(a.out, page)
	return nil
}

func (a *App) Photo(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "photo <id>"); err != nil {
		return err
	}
	photo, err := a.gallery.Photo(ctx, args[0])
	if err != nil {
		return err
	}
	printPhoto(a.out, photo)
	return nil
}

func (a *App) Like(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "like <id>"); err != nil {
		return err
	}
	return a.requireAuth(func() error {
		res, err := a.gallery.Like(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Liked (%d likes).\n", res.LikesCount)
		return nil
	})
}

func (a *App) Unlike(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "unlike <id>"); err != nil {
		return err
	}
	return a.requireAuth(func() error {
		res, err := a.gallery.Unlike(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Unliked (%d likes).\n", res.LikesCount)
		return nil
	})
}

// Upload sends an image from disk; title, description, categories and tags
// are prompted for.
func (a *App) Upload(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "upload <path>"); err != nil {
		return err
	}
	return a.requireAuth(func() error {
		title, err := getSimpleText(a.reader, "Enter title (empty to use the file name)", a.out)
		if err != nil {
			return err
		}
		description, err := GetMultiline(a.reader, "Enter description", a.out)
		if err != nil {
			return err
		}
		categories, err := GetList(a.reader, "Category IDs (comma separated, optional)", a.out)
		if err != nil {
			return err
		}
		tags, err := GetList(a.reader, "Tag IDs (comma separated, optional)", a.out)
		if err != nil {
			return err
		}

		photo, err := a.gallery.Upload(ctx, args[0], models.PhotoInput{
			Title:       title,
			Description: description,
			CategoryIDs: categories,
			TagIDs:      tags,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Uploaded %q as %s.\n", photo.Title, photo.ID)
		return nil
	})
}

func (a *App) Download(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "download <id> [original|large|medium|small]"); err != nil {
		return err
	}
	size := models.SizeOriginal
	if len(args) > 1 {
		size = args[1]
	}
	switch size {
	case models.SizeOriginal, models.SizeLarge, models.SizeMedium, models.SizeSmall:
	default:
		return fmt.Errorf("%w: unknown size %q", errUsage, size)
	}

	path, err := a.gallery.Download(ctx, args[0], size, a.config.DownloadDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved to %s\n", path)
	return nil
}

func (a *App) Collections(ctx context.Context, args []string) error {
	p, err := parseListArgs(args)
	if err != nil {
		return err
	}
	page, err := a.gallery.Collections(ctx, p)
	if err != nil {
		return err
	}
	printCollections(a.out, page)
	return nil
}

func (a *App) Collection(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "collection <id>"); err != nil {
		return err
	}
	c, err := a.gallery.Collection(ctx, args[0])
	if err != nil {
		return err
	}
	printCollection(a.out, c)
	return nil
}

func (a *App) NewCollection(ctx context.Context) error {
	return a.requireAuth(func() error {
		name, err := getSimpleText(a.reader, "Enter collection name", a.out)
		if err != nil {
			return err
		}
		description, err := getSimpleText(a.reader, "Enter description (optional)", a.out)
		if err != nil {
			return err
		}
		private, err := getSimpleText(a.reader, "Private? (y/N)", a.out)
		if err != nil {
			return err
		}
		isPrivate := strings.EqualFold(private, "y") || strings.EqualFold(private, "yes")

		c, err := a.gallery.CreateCollection(ctx, models.CollectionInput{
			Name:        name,
			Description: description,
			IsPrivate:   &isPrivate,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Created collection %q (%s).\n", c.Name, c.ID)
		return nil
	})
}

func (a *App) AddPhoto(ctx context.Context, args []string) error {
	if err := needArgs(args, 2, "addphoto <collection> <photo>"); err != nil {
		return err
	}
	return a.requireAuth(func() error {
		c, err := a.gallery.AddToCollection(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Added to %q (%d artworks).\n", c.Name, c.ArtworkCount)
		return nil
	})
}

func (a *App) Categories(ctx context.Context) error {
	terms, err := a.gallery.Categories(ctx)
	if err != nil {
		return err
	}
	printTerms(a.out, terms)
	return nil
}

func (a *App) Tags(ctx context.Context) error {
	terms, err := a.gallery.Tags(ctx)
	if err != nil {
		return err
	}
	printTerms(a.out, terms)
	return nil
}

func (a *App) Follow(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "follow <user>"); err != nil {
		return err
	}
	return a.requireAuth(func() error {
		if err := a.gallery.Follow(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Following.")
		return nil
	})
}

func (a *App) Unfollow(ctx context.Context, args []string) error {
	if err := needArgs(args, 1, "unfollow <user>"); err != nil {
		return err
	}
	return a.requireAuth(func() error {
		if err := a.gallery.Unfollow(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Unfollowed.")
		return nil
	})
}
