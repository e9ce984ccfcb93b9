package uploader

func NewScpUploaderRepositoryForTest(binary string) *ScpUploaderRepository {
	return &ScpUploaderRepository{binary: binary}
}
