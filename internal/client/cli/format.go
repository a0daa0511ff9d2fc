package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/artfolio/internal/models"
)

func displayName(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return "unknown"
}

func humanTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

func author(u *models.UserProfile) string {
	if u == nil {
		return "-"
	}
	return displayName(u.Username, u.FullName, u.Email)
}

func pageFooter(w io.Writer, count, shown int, next *string) {
	fmt.Fprintf(w, "%d of %d", shown, count)
	if next != nil {
		fmt.Fprint(w, " (more pages available)")
	}
	fmt.Fprintln(w)
}

func printPhotos(w io.Writer, page *models.Page[models.Photo]) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tLIKES\tADDED")
	for _, p := range page.Results {
		liked := ""
		if p.IsLiked {
			liked = " *"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d%s\t%s\n", p.ID, p.Title, author(p.User), p.LikesCount, liked, humanTime(p.CreatedAt))
	}
	_ = tw.Flush()
	pageFooter(w, page.Count, len(page.Results), page.Next)
}

func printPhoto(w io.Writer, p *models.Photo) {
	fmt.Fprintf(w, "%s (%s)\n", p.Title, p.ID)
	if p.Description != "" {
		fmt.Fprintln(w, p.Description)
	}
	fmt.Fprintf(w, "by %s, %s\n", author(p.User), humanTime(p.CreatedAt))
	if p.Width > 0 && p.Height > 0 {
		fmt.Fprintf(w, "%dx%d %s", p.Width, p.Height, strings.ToUpper(p.Format))
		if p.FileSize > 0 {
			fmt.Fprintf(w, ", %s", humanize.Bytes(uint64(p.FileSize)))
		}
		fmt.Fprintln(w)
	}
	if len(p.Categories) > 0 {
		fmt.Fprintf(w, "categories: %s\n", strings.Join(p.Categories, ", "))
	}
	if len(p.Tags) > 0 {
		fmt.Fprintf(w, "tags: %s\n", strings.Join(p.Tags, ", "))
	}
	fmt.Fprintf(w, "%s likes, %s views, %s downloads\n",
		humanize.Comma(int64(p.LikesCount)), humanize.Comma(int64(p.ViewsCount)), humanize.Comma(int64(p.DownloadCount)))
}

func printCollections(w io.Writer, page *models.Page[models.Collection]) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tOWNER\tARTWORKS\tUPDATED")
	for _, c := range page.Results {
		name := c.Name
		if c.IsPrivate {
			name += " (private)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", c.ID, name, author(c.User), c.ArtworkCount, humanTime(c.UpdatedAt))
	}
	_ = tw.Flush()
	pageFooter(w, page.Count, len(page.Results), page.Next)
}

func printCollection(w io.Writer, c *models.Collection) {
	fmt.Fprintf(w, "%s (%s) by %s\n", c.Name, c.ID, author(c.User))
	if c.Description != "" {
		fmt.Fprintln(w, c.Description)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, cp := range c.Photos {
		fmt.Fprintf(tw, "%d.\t%s\t%s\n", cp.Order+1, cp.Photo.ID, cp.Photo.Title)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "%d artworks, %d likes\n", c.ArtworkCount, c.LikesCount)
}

func printTerms(w io.Writer, terms []models.Term) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPHOTOS")
	for _, t := range terms {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", t.ID, t.Name, t.PhotosCount)
	}
	_ = tw.Flush()
}
