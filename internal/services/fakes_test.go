package services

import (
	"context"
	"fmt"
	"sort"

	"photo-gallery-backend/internal/models"
	"photo-gallery-backend/internal/repository"
)

// fakeImageRepo is an in-memory ImageRepo. GetByID returns copies so
// callers mutating the result cannot bypass Update, matching how a
// real database behaves.
type fakeImageRepo struct {
	images map[string]*models.Image
	tags   map[string][]string // image id -> tag ids

	failUpdate   bool
	failSyncTags bool
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{
		images: make(map[string]*models.Image),
		tags:   make(map[string][]string),
	}
}

func (f *fakeImageRepo) Create(ctx context.Context, image *models.Image) error {
	for _, existing := range f.images {
		if existing.Filename == image.Filename {
			return fmt.Errorf("filename %q: %w", image.Filename, repository.ErrDuplicate)
		}
	}
	cp := *image
	f.images[image.ID] = &cp
	return nil
}

func (f *fakeImageRepo) GetByID(ctx context.Context, id string) (*models.Image, error) {
	image, ok := f.images[id]
	if !ok {
		return nil, fmt.Errorf("image %s: %w", id, repository.ErrNotFound)
	}
	cp := *image
	return &cp, nil
}

func (f *fakeImageRepo) ListByUser(ctx context.Context, userID string) ([]*models.Image, error) {
	var images []*models.Image
	for _, image := range f.images {
		if image.UserID == userID {
			cp := *image
			images = append(images, &cp)
		}
	}
	sort.Slice(images, func(i, j int) bool { return images[i].CreatedAt.After(images[j].CreatedAt) })
	return images, nil
}

func (f *fakeImageRepo) Update(ctx context.Context, image *models.Image) error {
	if f.failUpdate {
		return fmt.Errorf("simulated update failure")
	}
	existing, ok := f.images[image.ID]
	if !ok {
		return fmt.Errorf("image %s: %w", image.ID, repository.ErrNotFound)
	}
	existing.Title = image.Title
	existing.Description = image.Description
	existing.Filename = image.Filename
	return nil
}

func (f *fakeImageRepo) UpdateFilename(ctx context.Context, id, filename string) error {
	if existing, ok := f.images[id]; ok {
		existing.Filename = filename
	}
	return nil
}

func (f *fakeImageRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.images[id]; !ok {
		return fmt.Errorf("image %s: %w", id, repository.ErrNotFound)
	}
	delete(f.images, id)
	delete(f.tags, id)
	return nil
}

func (f *fakeImageRepo) SyncTags(ctx context.Context, imageID string, tagIDs []string) error {
	if f.failSyncTags {
		return fmt.Errorf("simulated sync failure")
	}
	f.tags[imageID] = append([]string(nil), tagIDs...)
	return nil
}

func (f *fakeImageRepo) GetTagsForImages(ctx context.Context, imageIDs []string) (map[string][]*models.Tag, error) {
	out := make(map[string][]*models.Tag)
	for _, id := range imageIDs {
		for _, tagID := range f.tags[id] {
			out[id] = append(out[id], &models.Tag{ID: tagID})
		}
	}
	return out, nil
}

func (f *fakeImageRepo) CountOwned(ctx context.Context, userID string, ids []string) (int, error) {
	count := 0
	for _, id := range ids {
		if image, ok := f.images[id]; ok && image.UserID == userID {
			count++
		}
	}
	return count, nil
}

var _ ImageRepo = (*fakeImageRepo)(nil)

// fakeTagRepo is an in-memory TagRepo enforcing the per-owner name
// constraint the way the database schema does.
type fakeTagRepo struct {
	tags map[string]*models.Tag
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{tags: make(map[string]*models.Tag)}
}

func (f *fakeTagRepo) Create(ctx context.Context, tag *models.Tag) error {
	for _, existing := range f.tags {
		if existing.UserID == tag.UserID && existing.Name == tag.Name {
			return fmt.Errorf("tag %q: %w", tag.Name, repository.ErrDuplicate)
		}
	}
	cp := *tag
	f.tags[tag.ID] = &cp
	return nil
}

func (f *fakeTagRepo) GetByID(ctx context.Context, id string) (*models.Tag, error) {
	tag, ok := f.tags[id]
	if !ok {
		return nil, fmt.Errorf("tag %s: %w", id, repository.ErrNotFound)
	}
	cp := *tag
	return &cp, nil
}

func (f *fakeTagRepo) ListByUser(ctx context.Context, userID string) ([]*models.Tag, error) {
	var tags []*models.Tag
	for _, tag := range f.tags {
		if tag.UserID == userID {
			cp := *tag
			tags = append(tags, &cp)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].CreatedAt.After(tags[j].CreatedAt) })
	return tags, nil
}

func (f *fakeTagRepo) Update(ctx context.Context, tag *models.Tag) error {
	existing, ok := f.tags[tag.ID]
	if !ok {
		return fmt.Errorf("tag %s: %w", tag.ID, repository.ErrNotFound)
	}
	for _, other := range f.tags {
		if other.ID != tag.ID && other.UserID == tag.UserID && other.Name == tag.Name {
			return fmt.Errorf("tag %q: %w", tag.Name, repository.ErrDuplicate)
		}
	}
	existing.Name = tag.Name
	return nil
}

func (f *fakeTagRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.tags[id]; !ok {
		return fmt.Errorf("tag %s: %w", id, repository.ErrNotFound)
	}
	delete(f.tags, id)
	return nil
}

func (f *fakeTagRepo) CountOwned(ctx context.Context, userID string, ids []string) (int, error) {
	count := 0
	for _, id := range ids {
		if tag, ok := f.tags[id]; ok && tag.UserID == userID {
			count++
		}
	}
	return count, nil
}

var _ TagRepo = (*fakeTagRepo)(nil)

// fakeAlbumRepo is an in-memory AlbumRepo. Link sets are exposed for
// assertions on sync semantics.
type fakeAlbumRepo struct {
	albums     map[string]*models.Album
	tagLinks   map[string]map[string]bool // album id -> tag id set
	imageLinks map[string]map[string]bool // album id -> image id set
}

func newFakeAlbumRepo() *fakeAlbumRepo {
	return &fakeAlbumRepo{
		albums:     make(map[string]*models.Album),
		tagLinks:   make(map[string]map[string]bool),
		imageLinks: make(map[string]map[string]bool),
	}
}

func (f *fakeAlbumRepo) Create(ctx context.Context, album *models.Album) error {
	cp := *album
	f.albums[album.ID] = &cp
	return nil
}

func (f *fakeAlbumRepo) GetByID(ctx context.Context, id string) (*models.Album, error) {
	album, ok := f.albums[id]
	if !ok {
		return nil, fmt.Errorf("album %s: %w", id, repository.ErrNotFound)
	}
	cp := *album
	return &cp, nil
}

func (f *fakeAlbumRepo) ListByUser(ctx context.Context, userID string) ([]*models.Album, error) {
	var albums []*models.Album
	for _, album := range f.albums {
		if album.UserID == userID {
			cp := *album
			albums = append(albums, &cp)
		}
	}
	sort.Slice(albums, func(i, j int) bool { return albums[i].CreatedAt.After(albums[j].CreatedAt) })
	return albums, nil
}

func (f *fakeAlbumRepo) Update(ctx context.Context, album *models.Album) error {
	existing, ok := f.albums[album.ID]
	if !ok {
		return fmt.Errorf("album %s: %w", album.ID, repository.ErrNotFound)
	}
	existing.Title = album.Title
	existing.Description = album.Description
	existing.CoverImage = album.CoverImage
	return nil
}

func (f *fakeAlbumRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.albums[id]; !ok {
		return fmt.Errorf("album %s: %w", id, repository.ErrNotFound)
	}
	delete(f.albums, id)
	delete(f.tagLinks, id)
	delete(f.imageLinks, id)
	return nil
}

func syncSet(links map[string]map[string]bool, albumID string, ids []string) {
	target := make(map[string]bool, len(ids))
	for _, id := range ids {
		target[id] = true
	}
	links[albumID] = target
}

func (f *fakeAlbumRepo) SyncTags(ctx context.Context, albumID string, tagIDs []string) error {
	syncSet(f.tagLinks, albumID, tagIDs)
	return nil
}

func (f *fakeAlbumRepo) SyncImages(ctx context.Context, albumID string, imageIDs []string) error {
	syncSet(f.imageLinks, albumID, imageIDs)
	return nil
}

func (f *fakeAlbumRepo) GetTagsForAlbums(ctx context.Context, albumIDs []string) (map[string][]*models.Tag, error) {
	out := make(map[string][]*models.Tag)
	for _, id := range albumIDs {
		for tagID := range f.tagLinks[id] {
			out[id] = append(out[id], &models.Tag{ID: tagID})
		}
	}
	return out, nil
}

func (f *fakeAlbumRepo) GetImagesForAlbums(ctx context.Context, albumIDs []string) (map[string][]*models.Image, error) {
	out := make(map[string][]*models.Image)
	for _, id := range albumIDs {
		for imageID := range f.imageLinks[id] {
			out[id] = append(out[id], &models.Image{ID: imageID, Filename: imageID + ".jpg"})
		}
	}
	return out, nil
}

var _ AlbumRepo = (*fakeAlbumRepo)(nil)
