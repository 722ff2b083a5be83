package fs

import (
	"simdisk/backup"
)

const backupImagePath = "/lost+found/backup.img"

// Save snapshots the current image into /lost+found/backup.img, the same
// step the reference bootstrap and `save` command both perform (zip the
// disk file, then import the archive as an opaque blob back into the
// image itself).
func (fs *FileSystem) Save() error {
	if err := fs.file.Sync(); err != nil {
		return err
	}
	archive, err := backup.Zip(fs.file.Name())
	if err != nil {
		return err
	}

	rootSess, _ := fs.Sessions.Get(0)
	if !fs.exists(backupImagePath) {
		if err := fs.CreateFile(rootSess, backupImagePath); err != nil {
			return err
		}
	}
	return fs.WriteWhole(rootSess, backupImagePath, archive)
}
