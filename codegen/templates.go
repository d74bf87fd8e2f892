package codegen

// Template names, in the order the writer emits them.
const (
	TemplateHeader   = "header"
	TemplateClass    = "class"
	TemplateCallback = "callback"
	TemplateCreation = "creation"
	TemplateMain     = "main"
	TemplateInstance = "instance"
	TemplateRun      = "run"
	TemplateHelper   = "helper"
)

// Context markers ("#context <Class>.<name> {" ... "}") bound the regions
// whose hand edits survive regeneration.

const headerTemplate = `#!{{.Interpreter}}
# -*- coding: {{.Charset}} -*-
# {{.Copyright}}
{{.License}}

# Python module {{.Module}}.py
# Autogenerated from {{.Glade}}
# Generated on {{.Date}}

# Warning: Do not delete or modify comments related to context
# They are required to keep user's code

import os
import gtk
import SimpleGladeApp

glade_dir = ""
root_widgets = {}

# Put your modules and data here

# From here through main() codegen inserts/updates a class for
# every top-level widget in the .glade file.

`

const classTemplate = `class {{.Class}} (SimpleGladeApp.SimpleGladeApp):

{{.T}}def __init__ (self, glade_path="{{.Glade}}", root="{{.Root}}", domain=None):
{{.T}}{{.T}}glade_path = os.path.join(glade_dir, glade_path)
{{.T}}{{.T}}super({{.Class}}, self).__init__(glade_path, root, domain)

{{.T}}def new (self):
{{.T}}{{.T}}#context {{.Class}}.new {
{{.T}}{{.T}}print "A new {{.Class}} has been created"
{{.T}}{{.T}}#context {{.Class}}.new }

{{.T}}#context {{.Class}} custom methods {
{{.T}}#--- Write your own methods here ---#
{{.T}}#context {{.Class}} custom methods }

`

const callbackTemplate = `{{.T}}def {{.Handler}} (self, widget, *args):
{{.T}}{{.T}}#context {{.Class}}.{{.Handler}} {
{{.T}}{{.T}}print "{{.Handler}} called with self.%s" % widget.get_name()
{{.T}}{{.T}}#context {{.Class}}.{{.Handler}} }

`

const creationTemplate = `{{.T}}def {{.Handler}} (self, str1, str2, int1, int2):
{{.T}}{{.T}}#context {{.Class}}.{{.Handler}} {
{{.T}}{{.T}}widget = gtk.Label("{{.Handler}}")
{{.T}}{{.T}}widget.show_all()
{{.T}}{{.T}}return widget
{{.T}}{{.T}}#context {{.Class}}.{{.Handler}} }

`

const mainTemplate = `def main ():
`

const instanceTemplate = `{{.T}}{{.Instance}} = root_widgets['{{.Instance}}'] = {{.Class}}()
`

const runTemplate = `
{{.T}}{{.Instance}}.run()

if __name__ == "__main__":
{{.T}}main()
`

// HelperModuleName is the runtime support module imported by generated code.
const HelperModuleName = "SimpleGladeApp.py"

const helperTemplate = `# -*- coding: ascii -*-
# Copyright (C) 2004 Sandino Flores Moreno

# This library is free software; you can redistribute it and/or
# modify it under the terms of the GNU Lesser General Public
# License as published by the Free Software Foundation; either
# version 2.1 of the License, or (at your option) any later version.
#
# This library is distributed in the hope that it will be useful,
# but WITHOUT ANY WARRANTY; without even the implied warranty of
# MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
# Lesser General Public License for more details.
#
# You should have received a copy of the GNU Lesser General Public
# License along with this library; if not, write to the Free Software
# Foundation, Inc., 59 Temple Place, Suite 330, Boston, MA 02111-1307
# USA
"Module that provides an object oriented abstraction to pygtk and libglade."

import os
import sys
import weakref
try:
    import gtk
    import gtk.glade
except ImportError:
    print >> sys.stderr, "Error importing pygtk2 and pygtk2-libglade"
    sys.exit(1)

class SimpleGladeApp (dict):

    def __init__ (self, glade_filename,
                  main_widget_name=None, domain=None, **kwargs):
        if os.path.isfile(glade_filename):
            self.glade_path = glade_filename
        else:
            glade_dir = os.path.split(sys.argv[0])[0]
            self.glade_path = os.path.join(glade_dir, glade_filename)
            for key, value in kwargs.items():
                try:
                    setattr(self, key, weakref.proxy(value))
                except TypeError:
                    setattr(self, key, value)
        self.glade = None
        gtk.glade.set_custom_handler(self.custom_handler)
        self.glade = gtk.glade.XML(self.glade_path, main_widget_name, domain)
        if main_widget_name:
            self.main_widget = self.glade.get_widget(main_widget_name)
        else:
            self.main_widget = None
        self.signal_autoconnect()
        self.new()

    def signal_autoconnect (self):
        signals = {}
        for attr_name in dir(self):
            attr = getattr(self, attr_name)
            if callable(attr):
                signals[attr_name] = attr
        self.glade.signal_autoconnect(signals)

    def custom_handler (self,
            glade, function_name, widget_name,
            str1, str2, int1, int2):
        if hasattr(self, function_name):
            handler = getattr(self, function_name)
            return handler(str1, str2, int1, int2)

    def __getattr__ (self, data_name):
        if data_name in self:
            return self[data_name]
        else:
            widget = self.glade.get_widget(data_name)
            if widget is not None:
                self[data_name] = widget
                return widget
            else:
                raise AttributeError, data_name

    def __setattr__ (self, name, value):
        self[name] = value

    def new (self):
        pass

    def on_keyboard_interrupt (self):
        pass

    def gtk_widget_show (self, widget, *args):
        widget.show()

    def gtk_widget_hide (self, widget, *args):
        widget.hide()

    def gtk_widget_grab_focus (self, widget, *args):
        widget.grab_focus()

    def gtk_widget_destroy (self, widget, *args):
        widget.destroy()

    def gtk_window_activate_default (self, widget, *args):
        widget.activate_default()

    def gtk_true (self, *args):
        return gtk.TRUE

    def gtk_false (self, *args):
        return gtk.FALSE

    def gtk_main_quit (self, *args):
        gtk.main_quit()

    def main (self):
        {{.Threads}}
        gtk.main()

    def quit (self):
        gtk.main_quit()

    def run (self):
        try:
            self.main()
        except KeyboardInterrupt:
            self.on_keyboard_interrupt()
`
