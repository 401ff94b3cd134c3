package gists

import (
	"context"
	"sort"
)

// FileIterator lazily fetches the raw content of each file of a gist, one
// request per file. Files are visited in filename order so that repeated
// searches over the same gist behave the same way.
type FileIterator struct {
	client *Client
	gistID string
	files  []*File
	err    error
}

// Files returns an iterator over the contents of the files of gist.
func (c *Client) Files(gist *Gist) *FileIterator {
	names := make([]string, 0, len(gist.Files))
	for name, file := range gist.Files {
		if file != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	files := make([]*File, 0, len(names))
	for _, name := range names {
		file := *gist.Files[name]
		if file.Filename == "" {
			file.Filename = name
		}
		files = append(files, &file)
	}

	return &FileIterator{client: c, gistID: gist.ID, files: files}
}

// Next fetches the next file. ok is false once all files were returned or
// after an error; a failed iterator does not fetch the remaining files.
func (it *FileIterator) Next(ctx context.Context) (content string, ok bool, err error) {
	if it.err != nil {
		return "", false, it.err
	}
	if len(it.files) == 0 {
		return "", false, nil
	}

	file := it.files[0]
	it.files = it.files[1:]

	if file.RawURL == "" {
		it.err = &RemoteServiceError{
			Kind:    KindMalformed,
			Message: "file " + file.Filename + " of gist " + it.gistID + " has no raw_url",
		}
		return "", false, it.err
	}

	content, err = it.client.FetchText(ctx, file.RawURL)
	if err != nil {
		it.err = err
		return "", false, err
	}
	return content, true, nil
}

// Remaining returns how many files have not been fetched yet.
func (it *FileIterator) Remaining() int {
	return len(it.files)
}
