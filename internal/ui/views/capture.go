package views

// Capturing reports whether the view currently owns raw keyboard input
// (an open dialog or a focused text field). The app skips its global
// shortcuts while a view is capturing.

func (v *LoginView) Capturing() bool {
	return true
}

func (v *ProjectListView) Capturing() bool {
	return v.editing || v.confirmingDelete || v.bar.editing()
}

func (v *BeneficiaryListView) Capturing() bool {
	return v.editing || v.confirmingDelete || v.bar.editing()
}

func (v *ExpertListView) Capturing() bool {
	return v.editing || v.confirmingDelete || v.bar.editing()
}

func (v *UserListView) Capturing() bool {
	return v.editing || v.confirmingDelete || v.bar.editing()
}

func (v *ProjectDetailView) Capturing() bool {
	return v.dialog != dialogNone || v.confirmingDelete
}
